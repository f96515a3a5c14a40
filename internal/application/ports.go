package application

import (
	"context"
	"io"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

// ObjectStore stores uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// JobIndex is the full-text job search index. Search returns job ids in
// relevance order.
type JobIndex interface {
	Index(ctx context.Context, j *entity.Job) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, limit, offset int) ([]string, error)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role entity.Role
}
