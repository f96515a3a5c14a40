package helpers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient opens a Cloud Storage client from a service-account file, or
// from Application Default Credentials when credsPath is empty.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}

// UploadObject streams r to bucket/objectPath and returns the object's URL.
// The object is written in a single request; callers cap the size.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	w := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0
	w.ContentDisposition = "inline"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gs://%s/%s: %w", bucket, objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close gs://%s/%s: %w", bucket, objectPath, err)
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL is the storage.googleapis.com URL of an object; each path
// segment is escaped.
func PublicURL(bucket, objectPath string) string {
	segs := strings.Split(objectPath, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "https://storage.googleapis.com/" + bucket + "/" + strings.Join(segs, "/")
}
