// Package memory provides mutex-guarded in-process implementations of the
// repository interfaces. It backs STORE_DRIVER=memory and the test suites.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

// Store holds every collection behind one lock.
type Store struct {
	mu           sync.Mutex
	accounts     map[entity.Role]map[string]*entity.Account
	jobs         map[string]*entity.Job
	referrals    map[string]*entity.Referral
	applications map[string]*entity.Application
	audit        []entity.AuditEntry

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: map[entity.Role]map[string]*entity.Account{
			entity.RoleJobSeeker: {},
			entity.RoleRecruiter: {},
		},
		jobs:         map[string]*entity.Job{},
		referrals:    map[string]*entity.Referral{},
		applications: map[string]*entity.Application{},
		now:          time.Now,
	}
}

func (s *Store) Accounts() *AccountRepository         { return &AccountRepository{s} }
func (s *Store) Jobs() *JobRepository                 { return &JobRepository{s} }
func (s *Store) Referrals() *ReferralRepository       { return &ReferralRepository{s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s} }
func (s *Store) Audit() *AuditRepository              { return &AuditRepository{s} }

// AuditEntries returns a copy of the recorded audit log.
func (s *Store) AuditEntries() []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AuditEntry(nil), s.audit...)
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	if a.PendingOTP != nil {
		p := *a.PendingOTP
		c.PendingOTP = &p
	}
	if a.JobSeeker != nil {
		js := *a.JobSeeker
		js.Skills = append([]string(nil), a.JobSeeker.Skills...)
		c.JobSeeker = &js
	}
	if a.Recruiter != nil {
		rp := *a.Recruiter
		c.Recruiter = &rp
	}
	return &c
}

type AccountRepository struct{ s *Store }

func (r *AccountRepository) table(role entity.Role) (map[string]*entity.Account, bool) {
	t, ok := r.s.accounts[role]
	return t, ok
}

func (r *AccountRepository) GetByID(_ context.Context, role entity.Role, id string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.table(role)
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, a := range t {
		if a.ID == id {
			return cloneAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) GetByEmail(_ context.Context, role entity.Role, email string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.table(role)
	if !ok {
		return nil, repository.ErrNotFound
	}
	a, ok := t[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) IssueOTP(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.table(a.Role)
	if !ok {
		return repository.ErrNotFound
	}
	now := r.s.now()
	cur, exists := t[a.Email]
	if !exists {
		cur = &entity.Account{
			ID:        uuid.NewString(),
			Email:     a.Email,
			Role:      a.Role,
			State:     entity.StateUnverified,
			CreatedAt: now,
		}
		t[a.Email] = cur
	}
	if cur.State == entity.StateVerified {
		return repository.ErrStateConflict
	}
	if a.PasswordHash != "" {
		cur.PasswordHash = a.PasswordHash
	}
	p := *a.PendingOTP
	cur.PendingOTP = &p
	cur.State = entity.StateOTPIssued
	cur.UpdatedAt = now

	a.ID, a.State, a.CreatedAt, a.UpdatedAt = cur.ID, cur.State, cur.CreatedAt, cur.UpdatedAt
	return nil
}

func (r *AccountRepository) CompleteVerification(_ context.Context, a *entity.Account, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.byID(a.Role, a.ID)
	if cur == nil || cur.State == entity.StateVerified || cur.PendingOTP == nil || cur.PendingOTP.Code != code {
		return repository.ErrStateConflict
	}
	if a.PasswordHash != "" {
		cur.PasswordHash = a.PasswordHash
	}
	next := cloneAccount(a)
	cur.JobSeeker, cur.Recruiter = next.JobSeeker, next.Recruiter
	cur.PendingOTP = nil
	cur.State = entity.StateVerified
	cur.UpdatedAt = r.s.now()

	a.State, a.PendingOTP, a.UpdatedAt = cur.State, nil, cur.UpdatedAt
	return nil
}

func (r *AccountRepository) UpdateProfile(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.byID(a.Role, a.ID)
	if cur == nil || cur.State != entity.StateVerified {
		return repository.ErrNotFound
	}
	next := cloneAccount(a)
	if next.JobSeeker != nil {
		next.JobSeeker.ResumeURL = ""
		if cur.JobSeeker != nil {
			next.JobSeeker.ResumeURL = cur.JobSeeker.ResumeURL
		}
		a.JobSeeker.ResumeURL = next.JobSeeker.ResumeURL
	}
	cur.JobSeeker, cur.Recruiter = next.JobSeeker, next.Recruiter
	cur.UpdatedAt = r.s.now()
	a.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *AccountRepository) SetResumeURL(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.byID(entity.RoleJobSeeker, id)
	if cur == nil || cur.State != entity.StateVerified {
		return repository.ErrNotFound
	}
	if cur.JobSeeker == nil {
		cur.JobSeeker = &entity.JobSeekerProfile{}
	} else {
		p := *cur.JobSeeker
		cur.JobSeeker = &p
	}
	cur.JobSeeker.ResumeURL = url
	cur.UpdatedAt = r.s.now()
	return nil
}

func (r *AccountRepository) byID(role entity.Role, id string) *entity.Account {
	for _, a := range r.s.accounts[role] {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Delete removes an account; used to simulate deleted users.
func (r *AccountRepository) Delete(role entity.Role, id string) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for email, a := range r.s.accounts[role] {
		if a.ID == id {
			delete(r.s.accounts[role], email)
		}
	}
}

type JobRepository struct{ s *Store }

func cloneJob(j *entity.Job) *entity.Job {
	c := *j
	c.Skills = append([]string{}, j.Skills...)
	return &c
}

func (r *JobRepository) Create(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	j.ID, j.CreatedAt, j.UpdatedAt = uuid.NewString(), now, now
	r.s.jobs[j.ID] = cloneJob(j)
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id string) (*entity.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneJob(j), nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *JobRepository) List(_ context.Context, f entity.JobFilter) ([]*entity.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Job{}
	for _, j := range r.s.jobs {
		switch {
		case f.RecruiterID != "" && j.RecruiterID != f.RecruiterID,
			f.Status != "" && j.Status != f.Status,
			f.EmploymentType != "" && j.EmploymentType != f.EmploymentType,
			f.Location != "" && !containsFold(j.Location, f.Location),
			f.Query != "" && !containsFold(j.Title, f.Query) && !containsFold(j.Description, f.Query) && !containsFold(j.CompanyName, f.Query):
			continue
		}
		out = append(out, cloneJob(j))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *JobRepository) Update(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.jobs[j.ID]
	if !ok {
		return repository.ErrNotFound
	}
	j.CreatedAt, j.RecruiterID, j.UpdatedAt = cur.CreatedAt, cur.RecruiterID, r.s.now()
	r.s.jobs[j.ID] = cloneJob(j)
	return nil
}

func (r *JobRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

type ReferralRepository struct{ s *Store }

func cloneReferral(ref *entity.Referral) *entity.Referral {
	c := *ref
	return &c
}

func (r *ReferralRepository) Create(_ context.Context, ref *entity.Referral) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	ref.ID, ref.CreatedAt, ref.UpdatedAt = uuid.NewString(), now, now
	r.s.referrals[ref.ID] = cloneReferral(ref)
	return nil
}

func (r *ReferralRepository) GetByID(_ context.Context, id string) (*entity.Referral, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref, ok := r.s.referrals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneReferral(ref), nil
}

func (r *ReferralRepository) List(_ context.Context, f entity.ReferralFilter) ([]*entity.Referral, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Referral{}
	for _, ref := range r.s.referrals {
		if f.PostedBy != "" && ref.PostedBy != f.PostedBy {
			continue
		}
		if f.Status != "" && ref.Status != f.Status {
			continue
		}
		out = append(out, cloneReferral(ref))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Deadline.Before(out[k].Deadline) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *ReferralRepository) Update(_ context.Context, ref *entity.Referral) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.referrals[ref.ID]
	if !ok {
		return repository.ErrNotFound
	}
	ref.CreatedAt, ref.PostedBy, ref.PostedByRole, ref.UpdatedAt = cur.CreatedAt, cur.PostedBy, cur.PostedByRole, r.s.now()
	r.s.referrals[ref.ID] = cloneReferral(ref)
	return nil
}

func (r *ReferralRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.referrals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.referrals, id)
	return nil
}

func (r *ReferralRepository) ExpireBefore(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, ref := range r.s.referrals {
		if ref.Status == entity.ReferralActive && ref.Deadline.Before(now) {
			ref.Status = entity.ReferralExpired
			ref.UpdatedAt = r.s.now()
			n++
		}
	}
	return n, nil
}

type ApplicationRepository struct{ s *Store }

func cloneApplication(a *entity.Application) *entity.Application {
	c := *a
	return &c
}

func (r *ApplicationRepository) Create(_ context.Context, a *entity.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.applications {
		if cur.Kind == a.Kind && cur.TargetID == a.TargetID && cur.ApplicantID == a.ApplicantID {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	a.ID, a.CreatedAt, a.UpdatedAt = uuid.NewString(), now, now
	r.s.applications[a.ID] = cloneApplication(a)
	return nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id string) (*entity.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneApplication(a), nil
}

func (r *ApplicationRepository) ListByTarget(_ context.Context, kind entity.ApplicationKind, targetID string) ([]*entity.Application, error) {
	return r.filter(func(a *entity.Application) bool { return a.Kind == kind && a.TargetID == targetID }, false), nil
}

func (r *ApplicationRepository) ListByApplicant(_ context.Context, applicantID string) ([]*entity.Application, error) {
	return r.filter(func(a *entity.Application) bool { return a.ApplicantID == applicantID }, true), nil
}

func (r *ApplicationRepository) filter(keep func(*entity.Application) bool, newestFirst bool) []*entity.Application {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Application{}
	for _, a := range r.s.applications {
		if keep(a) {
			out = append(out, cloneApplication(a))
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[k].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, id string, from, to entity.ApplicationStatus) (*entity.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if a.Status != from {
		return nil, repository.ErrStateConflict
	}
	a.Status = to
	a.UpdatedAt = r.s.now()
	return cloneApplication(a), nil
}

type AuditRepository struct{ s *Store }

func (r *AuditRepository) Insert(_ context.Context, e entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.s.now()
	}
	r.s.audit = append(r.s.audit, e)
	return nil
}

func page[T any](in []T, limit, offset int) []T {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 || offset >= len(in) {
		return []T{}
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}

var (
	_ repository.AccountRepository     = (*AccountRepository)(nil)
	_ repository.JobRepository         = (*JobRepository)(nil)
	_ repository.ReferralRepository    = (*ReferralRepository)(nil)
	_ repository.ApplicationRepository = (*ApplicationRepository)(nil)
	_ repository.AuditRepository       = (*AuditRepository)(nil)
)
