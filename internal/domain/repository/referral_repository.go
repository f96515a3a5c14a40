package repository

import (
	"context"
	"time"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

type ReferralRepository interface {
	Create(ctx context.Context, r *entity.Referral) error
	GetByID(ctx context.Context, id string) (*entity.Referral, error)
	List(ctx context.Context, f entity.ReferralFilter) ([]*entity.Referral, error)
	Update(ctx context.Context, r *entity.Referral) error
	Delete(ctx context.Context, id string) error

	// ExpireBefore flips every active referral whose deadline is before now
	// to expired in a single statement and returns the number of rows changed.
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}
