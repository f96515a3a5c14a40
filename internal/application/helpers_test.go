package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/infrastructure/memory"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
)

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
	return n.err
}

func (n *recordingNotifier) last() mailer.EmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.jobs) == 0 {
		return mailer.EmailJob{}
	}
	return n.jobs[len(n.jobs)-1]
}

func (n *recordingNotifier) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.jobs))
	for _, j := range n.jobs {
		out = append(out, j.Template)
	}
	return out
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (m *memObjects) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[objectPath] = buf.Bytes()
	return "https://storage.test/" + objectPath, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errBoom = errors.New("boom")

type fixture struct {
	store    *memory.Store
	clock    *clock
	notifier *recordingNotifier
	objects  *memObjects
	auth     *AuthService
	profiles *ProfileService
	jobs     *JobService
	refs     *ReferralService
	apps     *ApplicationService
}

const testOTP = "042917"

func newFixture() *fixture {
	store := memory.NewStore()
	clk := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	n := &recordingNotifier{}
	objs := &memObjects{}
	cfg := &config.Config{AppName: "Hireboard", CompanyName: "Hireboard", FrontendURL: "https://hireboard.test"}
	jwt := helpers.NewJWTManager("test-secret", "hireboard", time.Hour).WithClock(clk.Now)
	resumes := &ResumeStore{Objects: objs, MaxBytes: 1 << 20}

	auth := NewAuthService(store.Accounts(), store.Audit(), jwt, n, cfg, nil)
	auth.Now = clk.Now
	auth.GenOTP = func() (string, error) { return testOTP, nil }

	refs := NewReferralService(store.Referrals(), nil)
	refs.Now = clk.Now

	apps := NewApplicationService(store.Applications(), store.Jobs(), store.Referrals(), store.Accounts(), resumes, n, cfg, nil)
	apps.Now = clk.Now

	return &fixture{
		store:    store,
		clock:    clk,
		notifier: n,
		objects:  objs,
		auth:     auth,
		profiles: NewProfileService(store.Accounts(), resumes, nil),
		jobs:     NewJobService(store.Jobs(), store.Accounts(), nil, nil),
		refs:     refs,
		apps:     apps,
	}
}

func janeProfile() *entity.JobSeekerProfile {
	return &entity.JobSeekerProfile{
		Name:        "Jane",
		PhoneNumber: "5550100",
		Skills:      []string{"go", " sql "},
		Experience:  "3 years",
		Education:   entity.Education{Degree: "BSc", Institution: "State University"},
		Location:    "Pune",
	}
}

func rickProfile() *entity.RecruiterProfile {
	return &entity.RecruiterProfile{
		Name:           "Rick",
		PhoneNumber:    "5550111",
		Designation:    "Talent Lead",
		CompanyName:    "Acme",
		CompanyWebsite: "https://acme.test",
	}
}

// signUpJobSeeker runs both signup phases and returns the session.
func (f *fixture) signUpJobSeeker(email string) *AuthResult {
	ctx := context.Background()
	if _, err := f.auth.BeginSignup(ctx, SignupInput{Email: email, Role: entity.RoleJobSeeker}); err != nil {
		panic(err)
	}
	res, err := f.auth.CompleteSignup(ctx, CompleteInput{Email: email, Role: entity.RoleJobSeeker, OTP: testOTP, Password: "hunter22!", JobSeeker: janeProfile()})
	if err != nil {
		panic(err)
	}
	return res
}

func (f *fixture) signUpRecruiter(email string) *AuthResult {
	ctx := context.Background()
	if _, err := f.auth.BeginSignup(ctx, SignupInput{Email: email, Role: entity.RoleRecruiter, Password: "recruit3r!"}); err != nil {
		panic(err)
	}
	res, err := f.auth.CompleteSignup(ctx, CompleteInput{Email: email, Role: entity.RoleRecruiter, OTP: testOTP, Recruiter: rickProfile()})
	if err != nil {
		panic(err)
	}
	return res
}

func actorOf(r *AuthResult) Actor {
	return Actor{ID: r.Account.ID, Role: r.Account.Role}
}
