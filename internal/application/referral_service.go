package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/pkg/helpers"
)

// ReferralService manages referral posts. Any verified account may post one.
type ReferralService struct {
	Referrals repo.ReferralRepository
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

func NewReferralService(referrals repo.ReferralRepository, logger logrus.FieldLogger) *ReferralService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ReferralService{Referrals: referrals, Logger: logger, Now: time.Now}
}

type ReferralInput struct {
	CompanyName string
	JobTitle    string
	Description string
	Location    string
	Deadline    time.Time
	Status      entity.ReferralStatus // updates only: active or closed
}

func (s *ReferralService) check(in *ReferralInput) error {
	var fields []string
	if strings.TrimSpace(in.CompanyName) == "" {
		fields = append(fields, "companyName")
	}
	if strings.TrimSpace(in.JobTitle) == "" {
		fields = append(fields, "jobTitle")
	}
	if in.Deadline.IsZero() {
		fields = append(fields, "deadline")
	}
	if len(fields) > 0 {
		return missingFields(fields)
	}
	switch in.Status {
	case "":
		in.Status = entity.ReferralActive
	case entity.ReferralActive, entity.ReferralClosed:
	default:
		return invalid("status must be active or closed")
	}
	if in.Status == entity.ReferralActive && !in.Deadline.After(s.Now()) {
		return invalid("deadline must be in the future")
	}
	return nil
}

func (s *ReferralService) Create(ctx context.Context, actor Actor, in ReferralInput) (*entity.Referral, error) {
	in.Status = ""
	if err := s.check(&in); err != nil {
		return nil, err
	}
	r := &entity.Referral{
		PostedBy:     actor.ID,
		PostedByRole: actor.Role,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		JobTitle:     strings.TrimSpace(in.JobTitle),
		Description:  in.Description,
		Location:     strings.TrimSpace(in.Location),
		Deadline:     in.Deadline.UTC(),
		Status:       entity.ReferralActive,
	}
	if err := s.Referrals.Create(ctx, r); err != nil {
		return nil, storageErr(err)
	}
	return r, nil
}

func (s *ReferralService) Get(ctx context.Context, id string) (*entity.Referral, error) {
	r, err := s.Referrals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return r, nil
}

// List defaults to active referrals.
func (s *ReferralService) List(ctx context.Context, f entity.ReferralFilter) ([]*entity.Referral, error) {
	switch f.Status {
	case "":
		f.Status = entity.ReferralActive
	case entity.ReferralActive, entity.ReferralExpired, entity.ReferralClosed:
	default:
		return nil, invalid("status must be active, expired or closed")
	}
	out, err := s.Referrals.List(ctx, f)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *ReferralService) owned(ctx context.Context, actor Actor, id string) (*entity.Referral, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.OwnedBy(actor.ID, actor.Role) {
		return nil, ErrForbidden
	}
	return r, nil
}

// Update edits an owned referral. Moving the deadline into the future
// reactivates an expired one.
func (s *ReferralService) Update(ctx context.Context, actor Actor, id string, in ReferralInput) (*entity.Referral, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	r, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	r.CompanyName = strings.TrimSpace(in.CompanyName)
	r.JobTitle = strings.TrimSpace(in.JobTitle)
	r.Description = in.Description
	r.Location = strings.TrimSpace(in.Location)
	r.Deadline = in.Deadline.UTC()
	r.Status = in.Status
	if err := s.Referrals.Update(ctx, r); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return r, nil
}

func (s *ReferralService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Referrals.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}
