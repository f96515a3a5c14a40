package repository

import (
	"context"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	List(ctx context.Context, f entity.JobFilter) ([]*entity.Job, error)
	Update(ctx context.Context, j *entity.Job) error
	Delete(ctx context.Context, id string) error
}
