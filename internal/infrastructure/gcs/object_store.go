// Package gcs stores uploaded files in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/hireboard/pkg/helpers"
)

type ObjectStore struct {
	Client  *storage.Client
	Bucket  string
	Timeout time.Duration
}

func NewObjectStore(client *storage.Client, bucket string) *ObjectStore {
	return &ObjectStore{Client: client, Bucket: bucket, Timeout: 30 * time.Second}
}

// Put uploads r to objectPath and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s == nil || s.Client == nil || s.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}
