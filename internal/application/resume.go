package application

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ResumeFile is an uploaded resume as received from the transport.
type ResumeFile struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ResumeStore validates and uploads resumes to object storage.
type ResumeStore struct {
	Objects  ObjectStore
	MaxBytes int64
}

// Upload checks extension and size, then stores the file under
// resumes/<owner>/<uuid><ext>.
func (r *ResumeStore) Upload(ctx context.Context, ownerID string, f *ResumeFile) (string, error) {
	if f == nil || f.Body == nil {
		return "", invalid("resume file is required")
	}
	ext := strings.ToLower(path.Ext(f.Filename))
	contentType, ok := resumeTypes[ext]
	if !ok {
		return "", invalid("resume must be a pdf, doc or docx file")
	}
	if r == nil || r.Objects == nil {
		return "", fmt.Errorf("%w: object storage not configured", ErrUpstream)
	}
	if r.MaxBytes > 0 && f.Size > r.MaxBytes {
		return "", invalid(fmt.Sprintf("resume exceeds %d bytes", r.MaxBytes))
	}
	objectPath := path.Join("resumes", ownerID, uuid.NewString()+ext)
	url, err := r.Objects.Put(ctx, objectPath, contentType, f.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return url, nil
}
