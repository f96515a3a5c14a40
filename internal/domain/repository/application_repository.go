package repository

import (
	"context"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

type ApplicationRepository interface {
	// Create returns ErrDuplicate if the applicant already applied to the target.
	Create(ctx context.Context, a *entity.Application) error
	GetByID(ctx context.Context, id string) (*entity.Application, error)
	ListByTarget(ctx context.Context, kind entity.ApplicationKind, targetID string) ([]*entity.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*entity.Application, error)

	// UpdateStatus moves the application from one status to another only if it
	// is still in from. Returns ErrStateConflict otherwise.
	UpdateStatus(ctx context.Context, id string, from, to entity.ApplicationStatus) (*entity.Application, error)
}
