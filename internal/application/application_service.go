package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

// ApplicationService handles job seekers applying to jobs and referrals and
// the target owner moving applications through review.
type ApplicationService struct {
	Applications repo.ApplicationRepository
	Jobs         repo.JobRepository
	Referrals    repo.ReferralRepository
	Accounts     repo.AccountRepository
	Resumes      *ResumeStore
	Notifier     Notifier
	Cfg          *config.Config
	Logger       logrus.FieldLogger
	Now          func() time.Time
}

func NewApplicationService(apps repo.ApplicationRepository, jobs repo.JobRepository, refs repo.ReferralRepository, accounts repo.AccountRepository, resumes *ResumeStore, n Notifier, cfg *config.Config, logger logrus.FieldLogger) *ApplicationService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ApplicationService{
		Applications: apps,
		Jobs:         jobs,
		Referrals:    refs,
		Accounts:     accounts,
		Resumes:      resumes,
		Notifier:     n,
		Cfg:          cfg,
		Logger:       logger,
		Now:          time.Now,
	}
}

type ApplyInput struct {
	CoverLetter string
	Resume      *ResumeFile // optional; the profile resume is used otherwise
}

// target is the job or referral an application points at.
type target struct {
	kind      entity.ApplicationKind
	id        string
	title     string
	ownerID   string
	ownerRole entity.Role
}

// link is a frontend URL for path, or "" without a configured frontend.
func (s *ApplicationService) link(path string) string {
	if s.Cfg == nil || s.Cfg.FrontendURL == "" {
		return ""
	}
	return strings.TrimRight(s.Cfg.FrontendURL, "/") + path
}

func (t *target) ownedBy(a Actor) bool {
	return t.ownerID == a.ID && t.ownerRole == a.Role
}

func (s *ApplicationService) target(ctx context.Context, kind entity.ApplicationKind, id string) (*target, error) {
	switch kind {
	case entity.ApplyToJob:
		j, err := s.Jobs.GetByID(ctx, id)
		if err != nil {
			return nil, notFoundOrStorage(err)
		}
		return &target{kind: kind, id: j.ID, title: j.Title, ownerID: j.RecruiterID, ownerRole: entity.RoleRecruiter}, nil
	case entity.ApplyToReferral:
		r, err := s.Referrals.GetByID(ctx, id)
		if err != nil {
			return nil, notFoundOrStorage(err)
		}
		return &target{kind: kind, id: r.ID, title: r.JobTitle + " at " + r.CompanyName, ownerID: r.PostedBy, ownerRole: r.PostedByRole}, nil
	}
	return nil, invalid("unknown application kind")
}

// ApplyToJob creates an application for an open job.
func (s *ApplicationService) ApplyToJob(ctx context.Context, applicantID, jobID string, in ApplyInput) (*entity.Application, error) {
	j, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	if j.Status != entity.JobOpen {
		return nil, invalid("job is closed")
	}
	t := &target{kind: entity.ApplyToJob, id: j.ID, title: j.Title, ownerID: j.RecruiterID, ownerRole: entity.RoleRecruiter}
	return s.apply(ctx, applicantID, t, in)
}

// ApplyToReferral creates an application for an active referral the
// applicant did not post.
func (s *ApplicationService) ApplyToReferral(ctx context.Context, applicantID, referralID string, in ApplyInput) (*entity.Application, error) {
	r, err := s.Referrals.GetByID(ctx, referralID)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	if r.OwnedBy(applicantID, entity.RoleJobSeeker) {
		return nil, invalid("cannot apply to your own referral")
	}
	if r.Status != entity.ReferralActive || r.Deadline.Before(s.Now()) {
		return nil, invalid("referral is no longer accepting applications")
	}
	t := &target{kind: entity.ApplyToReferral, id: r.ID, title: r.JobTitle + " at " + r.CompanyName, ownerID: r.PostedBy, ownerRole: r.PostedByRole}
	return s.apply(ctx, applicantID, t, in)
}

func (s *ApplicationService) apply(ctx context.Context, applicantID string, t *target, in ApplyInput) (*entity.Application, error) {
	applicant, err := s.Accounts.GetByID(ctx, entity.RoleJobSeeker, applicantID)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}

	resumeURL := ""
	if applicant.JobSeeker != nil {
		resumeURL = applicant.JobSeeker.ResumeURL
	}
	if in.Resume != nil {
		if resumeURL, err = s.Resumes.Upload(ctx, applicantID, in.Resume); err != nil {
			return nil, err
		}
	}

	a := &entity.Application{
		Kind:        t.kind,
		TargetID:    t.id,
		ApplicantID: applicantID,
		ResumeURL:   resumeURL,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Status:      entity.AppApplied,
	}
	if err := s.Applications.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Code: ErrConflict.Code, Message: "already applied"}
		}
		return nil, storageErr(err)
	}
	metrics.Add(mApplications, 1)

	if owner, err := s.Accounts.GetByID(ctx, t.ownerRole, t.ownerID); err == nil {
		review := mailtpl.WithActionURL(s.link("/" + string(t.kind) + "s/" + t.id + "/applications"))
		notify(ctx, s.Notifier, s.Logger, mailer.EmailJob{
			To:       owner.Email,
			Template: mailtpl.ApplicationReceived,
			Data:     mailtpl.NewApplicationReceivedData(s.Cfg, owner.Name(), owner.Email, t.title, applicant.Name(), review),
		})
	} else {
		s.Logger.WithError(err).WithField("owner_id", t.ownerID).Warn("application owner lookup failed")
	}
	return a, nil
}

// ListForTarget returns the applications of a job or referral to its owner.
func (s *ApplicationService) ListForTarget(ctx context.Context, actor Actor, kind entity.ApplicationKind, targetID string) ([]*entity.Application, error) {
	t, err := s.target(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !t.ownedBy(actor) {
		return nil, ErrForbidden
	}
	out, err := s.Applications.ListByTarget(ctx, kind, t.id)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, applicantID string) ([]*entity.Application, error) {
	out, err := s.Applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// Get is visible to the applicant and to the owner of the target.
func (s *ApplicationService) Get(ctx context.Context, actor Actor, id string) (*entity.Application, error) {
	a, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	if err := s.visible(ctx, actor, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ApplicationService) visible(ctx context.Context, actor Actor, a *entity.Application) error {
	if actor.Role == entity.RoleJobSeeker && a.ApplicantID == actor.ID {
		return nil
	}
	t, err := s.target(ctx, a.Kind, a.TargetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !t.ownedBy(actor) {
		return ErrForbidden
	}
	return nil
}

// UpdateStatus moves an application forward in review. Only the target
// owner may do it, and withdrawal is reserved to the applicant.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor Actor, id string, next entity.ApplicationStatus) (*entity.Application, error) {
	if !next.Valid() || next == entity.AppApplied || next == entity.AppWithdrawn {
		return nil, invalid("status must be one of reviewed, shortlisted, rejected, hired")
	}
	a, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	t, err := s.target(ctx, a.Kind, a.TargetID)
	if err != nil {
		return nil, err
	}
	if !t.ownedBy(actor) {
		return nil, ErrForbidden
	}
	updated, err := s.transition(ctx, a, next)
	if err != nil {
		return nil, err
	}

	if applicant, err := s.Accounts.GetByID(ctx, entity.RoleJobSeeker, a.ApplicantID); err == nil {
		track := mailtpl.WithActionURL(s.link("/applications/" + a.ID))
		notify(ctx, s.Notifier, s.Logger, mailer.EmailJob{
			To:       applicant.Email,
			Template: mailtpl.ApplicationStatus,
			Data:     mailtpl.NewApplicationStatusData(s.Cfg, applicant.Name(), applicant.Email, t.title, string(next), track),
		})
	}
	return updated, nil
}

// Withdraw lets the applicant pull an application that is not yet shortlisted.
func (s *ApplicationService) Withdraw(ctx context.Context, actor Actor, id string) (*entity.Application, error) {
	a, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	if actor.Role != entity.RoleJobSeeker || a.ApplicantID != actor.ID {
		return nil, ErrForbidden
	}
	return s.transition(ctx, a, entity.AppWithdrawn)
}

func (s *ApplicationService) transition(ctx context.Context, a *entity.Application, next entity.ApplicationStatus) (*entity.Application, error) {
	if !a.Status.CanTransition(next) {
		return nil, invalid("cannot move application from " + string(a.Status) + " to " + string(next))
	}
	updated, err := s.Applications.UpdateStatus(ctx, a.ID, a.Status, next)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrStateConflict):
			return nil, &Error{Kind: KindConflict, Code: ErrConflict.Code, Message: "application status changed concurrently"}
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return updated, nil
}

func notFoundOrStorage(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return storageErr(err)
}
