package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/pkg/helpers"
)

// JobService manages recruiter job postings and keeps the search index
// in step with the store.
type JobService struct {
	Jobs     repo.JobRepository
	Accounts repo.AccountRepository
	Index    JobIndex
	Logger   logrus.FieldLogger
}

func NewJobService(jobs repo.JobRepository, accounts repo.AccountRepository, index JobIndex, logger logrus.FieldLogger) *JobService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &JobService{Jobs: jobs, Accounts: accounts, Index: index, Logger: logger}
}

// JobInput is the editable part of a job.
type JobInput struct {
	Title          string
	Description    string
	CompanyName    string
	Location       string
	EmploymentType entity.EmploymentType
	SalaryMin      int64
	SalaryMax      int64
	Skills         []string
	Status         entity.JobStatus
}

func (in *JobInput) check() error {
	var fields []string
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, "description")
	}
	if strings.TrimSpace(in.Location) == "" {
		fields = append(fields, "location")
	}
	if len(fields) > 0 {
		return missingFields(fields)
	}
	switch in.EmploymentType {
	case "":
		in.EmploymentType = entity.FullTime
	case entity.FullTime, entity.PartTime, entity.Contract, entity.Internship:
	default:
		return invalid("employmentType must be one of full-time, part-time, contract, internship")
	}
	switch in.Status {
	case "":
		in.Status = entity.JobOpen
	case entity.JobOpen, entity.JobClosed:
	default:
		return invalid("status must be open or closed")
	}
	if in.SalaryMin < 0 || in.SalaryMax < 0 || (in.SalaryMax > 0 && in.SalaryMin > in.SalaryMax) {
		return invalid("salary range is invalid")
	}
	return nil
}

func (s *JobService) Create(ctx context.Context, recruiterID string, in JobInput) (*entity.Job, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	company := strings.TrimSpace(in.CompanyName)
	if company == "" {
		acc, err := s.Accounts.GetByID(ctx, entity.RoleRecruiter, recruiterID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrForbidden
			}
			return nil, storageErr(err)
		}
		if acc.Recruiter != nil {
			company = acc.Recruiter.CompanyName
		}
	}
	j := &entity.Job{
		RecruiterID:    recruiterID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		CompanyName:    company,
		Location:       strings.TrimSpace(in.Location),
		EmploymentType: in.EmploymentType,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		Skills:         entity.NormalizeSkills(in.Skills),
		Status:         in.Status,
	}
	if err := s.Jobs.Create(ctx, j); err != nil {
		return nil, storageErr(err)
	}
	s.reindex(ctx, j)
	return j, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*entity.Job, error) {
	j, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return j, nil
}

func (s *JobService) List(ctx context.Context, f entity.JobFilter) ([]*entity.Job, error) {
	jobs, err := s.Jobs.List(ctx, f)
	if err != nil {
		return nil, storageErr(err)
	}
	return jobs, nil
}

// Search queries the index and loads hits from the store. Without an index,
// or when the index fails, it falls back to the store's text filter.
func (s *JobService) Search(ctx context.Context, q string, limit, offset int) ([]*entity.Job, error) {
	q = strings.TrimSpace(q)
	fallback := entity.JobFilter{Query: q, Status: entity.JobOpen, Limit: limit, Offset: offset}
	if s.Index == nil || q == "" {
		return s.List(ctx, fallback)
	}
	ids, err := s.Index.Search(ctx, q, limit, offset)
	if err != nil {
		s.Logger.WithError(err).WithField("q", q).Warn("job search index failed; using store filter")
		return s.List(ctx, fallback)
	}
	out := make([]*entity.Job, 0, len(ids))
	for _, id := range ids {
		j, err := s.Jobs.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, storageErr(err)
		}
		if j.Status == entity.JobOpen {
			out = append(out, j)
		}
	}
	return out, nil
}

// owned loads the job and checks that recruiterID posted it.
func (s *JobService) owned(ctx context.Context, recruiterID, id string) (*entity.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.RecruiterID != recruiterID {
		return nil, ErrForbidden
	}
	return j, nil
}

func (s *JobService) Update(ctx context.Context, recruiterID, id string, in JobInput) (*entity.Job, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	j, err := s.owned(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}
	j.Title = strings.TrimSpace(in.Title)
	j.Description = in.Description
	if c := strings.TrimSpace(in.CompanyName); c != "" {
		j.CompanyName = c
	}
	j.Location = strings.TrimSpace(in.Location)
	j.EmploymentType = in.EmploymentType
	j.SalaryMin, j.SalaryMax = in.SalaryMin, in.SalaryMax
	j.Skills = entity.NormalizeSkills(in.Skills)
	j.Status = in.Status
	if err := s.Jobs.Update(ctx, j); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	s.reindex(ctx, j)
	return j, nil
}

func (s *JobService) Delete(ctx context.Context, recruiterID, id string) error {
	if _, err := s.owned(ctx, recruiterID, id); err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("job_id", id).Warn("job index remove failed")
		}
	}
	return nil
}

func (s *JobService) reindex(ctx context.Context, j *entity.Job) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, j); err != nil {
		s.Logger.WithError(err).WithField("job_id", j.ID).Warn("job index failed")
	}
}
