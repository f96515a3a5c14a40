package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/pkg/helpers"
)

// ProfileService reads and edits the profiles of verified accounts.
type ProfileService struct {
	Accounts repo.AccountRepository
	Resumes  *ResumeStore
	Logger   logrus.FieldLogger
}

func NewProfileService(accounts repo.AccountRepository, resumes *ResumeStore, logger logrus.FieldLogger) *ProfileService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ProfileService{Accounts: accounts, Resumes: resumes, Logger: logger}
}

// Get loads a verified account; unverified accounts are invisible.
func (s *ProfileService) Get(ctx context.Context, role entity.Role, id string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByID(ctx, role, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	if !acc.IsVerified() {
		return nil, ErrNotFound
	}
	return acc, nil
}

// UpdateJobSeeker replaces the job seeker profile. The stored resume URL is
// left to the repository, so a concurrent UploadResume is not overwritten.
func (s *ProfileService) UpdateJobSeeker(ctx context.Context, id string, p entity.JobSeekerProfile) (*entity.Account, error) {
	if fields := p.MissingFields(); len(fields) > 0 {
		return nil, missingFields(fields)
	}
	acc, err := s.Get(ctx, entity.RoleJobSeeker, id)
	if err != nil {
		return nil, err
	}
	p.Skills = entity.NormalizeSkills(p.Skills)
	acc.JobSeeker = &p
	if err := s.save(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *ProfileService) UpdateRecruiter(ctx context.Context, id string, p entity.RecruiterProfile) (*entity.Account, error) {
	if fields := p.MissingFields(); len(fields) > 0 {
		return nil, missingFields(fields)
	}
	acc, err := s.Get(ctx, entity.RoleRecruiter, id)
	if err != nil {
		return nil, err
	}
	acc.Recruiter = &p
	if err := s.save(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// UploadResume stores the file and points the job seeker profile at it.
func (s *ProfileService) UploadResume(ctx context.Context, id string, f *ResumeFile) (string, error) {
	if _, err := s.Get(ctx, entity.RoleJobSeeker, id); err != nil {
		return "", err
	}
	url, err := s.Resumes.Upload(ctx, id, f)
	if err != nil {
		return "", err
	}
	if err := s.Accounts.SetResumeURL(ctx, id, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", storageErr(err)
	}
	s.Logger.WithFields(logrus.Fields{"account_id": id, "url": url}).Info("resume uploaded")
	return url, nil
}

func (s *ProfileService) save(ctx context.Context, acc *entity.Account) error {
	if err := s.Accounts.UpdateProfile(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}
