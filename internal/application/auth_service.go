package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/mailer"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt rejects longer input
)

var validate = validator.New()

// AuthService drives the two-phase signup, login and token authorization
// for both roles.
type AuthService struct {
	Accounts repo.AccountRepository
	Audit    repo.AuditRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Cfg      *config.Config
	Logger   logrus.FieldLogger

	Now    func() time.Time
	GenOTP func() (string, error)
}

func NewAuthService(accounts repo.AccountRepository, audit repo.AuditRepository, jwt *helpers.JWTManager, n Notifier, cfg *config.Config, logger logrus.FieldLogger) *AuthService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &AuthService{
		Accounts: accounts,
		Audit:    audit,
		JWT:      jwt,
		Notifier: n,
		Cfg:      cfg,
		Logger:   logger,
		Now:      time.Now,
		GenOTP:   helpers.GenOTPCode,
	}
}

type SignupInput struct {
	Email     string
	Role      entity.Role
	Password  string // recruiter only
	ClientIP  string
	UserAgent string
}

type SignupResult struct {
	Email     string
	Role      entity.Role
	ExpiresAt time.Time
}

type CompleteInput struct {
	Email     string
	Role      entity.Role
	OTP       string
	Password  string // job seeker only
	JobSeeker *entity.JobSeekerProfile
	Recruiter *entity.RecruiterProfile
	ClientIP  string
	UserAgent string
}

type LoginInput struct {
	Email     string
	Password  string
	Role      entity.Role
	ClientIP  string
	UserAgent string
}

// AuthResult is a freshly issued session.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *entity.Account
}

// BeginSignup issues (or re-issues) a signup code and emails it.
func (s *AuthService) BeginSignup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	email := strings.TrimSpace(in.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, invalid("a valid email is required")
	}
	if !in.Role.Valid() {
		return nil, invalid("unknown role")
	}

	var hash string
	if in.Role == entity.RoleRecruiter {
		h, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	existing, err := s.Accounts.GetByEmail(ctx, in.Role, email)
	switch {
	case err == nil && existing.IsVerified():
		return nil, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, storageErr(err)
	}

	code, err := s.GenOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	now := s.Now()
	acc := &entity.Account{
		Email:        email,
		Role:         in.Role,
		PasswordHash: hash,
		PendingOTP:   &entity.PendingOTP{Code: code, ExpiresAt: helpers.OTPExpiry(now)},
	}
	if err := s.Accounts.IssueOTP(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrStateConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, storageErr(err)
	}
	metrics.Add(mSignupsStarted, 1)

	notify(ctx, s.Notifier, s.Logger, mailer.EmailJob{
		To:       email,
		Template: mailtpl.SignupOTP,
		Data: mailtpl.NewSignupOTPData(s.Cfg, email, code, acc.PendingOTP.ExpiresAt,
			mailtpl.WithIP(in.ClientIP), mailtpl.WithUserAgent(in.UserAgent), mailtpl.WithTime(now)),
	})
	s.audit(ctx, acc, "signup_otp_issued", in.ClientIP, in.UserAgent, nil)

	return &SignupResult{Email: email, Role: in.Role, ExpiresAt: acc.PendingOTP.ExpiresAt}, nil
}

func (in CompleteInput) missing() []string {
	var out []string
	if strings.TrimSpace(in.Email) == "" {
		out = append(out, "email")
	}
	if strings.TrimSpace(in.OTP) == "" {
		out = append(out, "otp")
	}
	switch in.Role {
	case entity.RoleJobSeeker:
		if in.Password == "" {
			out = append(out, "password")
		}
		out = append(out, in.JobSeeker.MissingFields()...)
	case entity.RoleRecruiter:
		out = append(out, in.Recruiter.MissingFields()...)
	}
	return out
}

// CompleteSignup checks the code, stores the profile and marks the account
// verified, then issues a session token.
func (s *AuthService) CompleteSignup(ctx context.Context, in CompleteInput) (*AuthResult, error) {
	if !in.Role.Valid() {
		return nil, invalid("unknown role")
	}
	if fields := in.missing(); len(fields) > 0 {
		return nil, missingFields(fields)
	}

	email := strings.TrimSpace(in.Email)
	acc, err := s.Accounts.GetByEmail(ctx, in.Role, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	if acc.IsVerified() {
		return nil, ErrNotFound
	}

	code := strings.TrimSpace(in.OTP)
	pending := acc.PendingOTP
	if pending == nil || subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		return nil, ErrInvalidOTP
	}
	if pending.Expired(s.Now()) {
		return nil, ErrOTPExpired
	}

	switch in.Role {
	case entity.RoleJobSeeker:
		h, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		profile := *in.JobSeeker
		profile.Skills = entity.NormalizeSkills(profile.Skills)
		profile.ResumeURL = ""
		acc.PasswordHash = h
		acc.JobSeeker = &profile
	case entity.RoleRecruiter:
		profile := *in.Recruiter
		acc.Recruiter = &profile
	}

	if err := s.Accounts.CompleteVerification(ctx, acc, code); err != nil {
		if errors.Is(err, repo.ErrStateConflict) {
			return nil, ErrInvalidOTP
		}
		return nil, storageErr(err)
	}
	metrics.Add(mSignupsCompleted, 1)

	res, err := s.issue(acc)
	if err != nil {
		return nil, err
	}
	notify(ctx, s.Notifier, s.Logger, mailer.EmailJob{
		To:       acc.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(s.Cfg, acc.Name(), acc.Email, acc.Role.String()),
	})
	s.audit(ctx, acc, "signup_verified", in.ClientIP, in.UserAgent, nil)
	return res, nil
}

// hashPassword enforces the password length bounds for both roles before
// hashing.
func hashPassword(plain string) (string, error) {
	switch {
	case len(plain) < minPasswordLen:
		return "", invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	case len(plain) > maxPasswordLen:
		return "", invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordLen))
	}
	h, err := helpers.HashPassword(plain)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Login authenticates a verified account of the given role.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	var acc *entity.Account
	if in.Role.Valid() {
		a, err := s.Accounts.GetByEmail(ctx, in.Role, email)
		switch {
		case err == nil:
			acc = a
		case !errors.Is(err, repo.ErrNotFound):
			return nil, storageErr(err)
		}
	}

	hash := ""
	if acc != nil && acc.IsVerified() {
		hash = acc.PasswordHash
	}
	if !helpers.CompareHashAndPassword(hash, in.Password) {
		metrics.Add(mLoginsFailed, 1)
		if acc != nil {
			s.audit(ctx, acc, "login_failed", in.ClientIP, in.UserAgent, nil)
		}
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(acc)
	if err != nil {
		return nil, err
	}
	metrics.Add(mLoginsSucceeded, 1)
	s.audit(ctx, acc, "login", in.ClientIP, in.UserAgent, nil)
	return res, nil
}

// Authorize validates a bearer token and loads its account with a single
// store lookup.
func (s *AuthService) Authorize(ctx context.Context, token string) (*entity.Account, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return nil, ErrInvalidToken
	}
	acc, err := s.Accounts.GetByID(ctx, role, claims.AccountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storageErr(err)
	}
	if !acc.IsVerified() {
		return nil, ErrInvalidToken
	}
	return acc, nil
}

func (s *AuthService) issue(acc *entity.Account) (*AuthResult, error) {
	token, exp, err := s.JWT.Generate(acc.ID, acc.Role.String())
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", acc.ID).Error("generate token failed")
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, Account: acc}, nil
}

func (s *AuthService) audit(ctx context.Context, acc *entity.Account, action, ip, ua string, meta map[string]any) {
	if s.Audit == nil {
		return
	}
	err := s.Audit.Insert(ctx, entity.AuditEntry{
		AccountID: acc.ID,
		Role:      acc.Role,
		Email:     acc.Email,
		Action:    action,
		IP:        ip,
		UserAgent: ua,
		Metadata:  meta,
		CreatedAt: s.Now().UTC(),
	})
	if err != nil {
		s.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}
