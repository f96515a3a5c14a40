package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	mailtpl "github.com/oksasatya/hireboard/pkg/mailer/templates"
)

func TestSignupFlow_JobSeeker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, ClientIP: "203.0.113.9"})
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", res.Email)
	assert.Equal(t, f.clock.Now().Add(10*time.Minute), res.ExpiresAt)

	sent := f.notifier.last()
	assert.Equal(t, "jane@x.com", sent.To)
	assert.Equal(t, mailtpl.SignupOTP, sent.Template)
	assert.Equal(t, testOTP, sent.Data["Code"])

	acc, err := f.store.Accounts().GetByEmail(ctx, entity.RoleJobSeeker, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.StateOTPIssued, acc.State)
	assert.Empty(t, acc.PasswordHash)

	done, err := f.auth.CompleteSignup(ctx, CompleteInput{
		Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, Password: "hunter22!", JobSeeker: janeProfile(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, done.Token)
	assert.Equal(t, []string{"go", "sql"}, done.Account.JobSeeker.Skills)

	acc, err = f.store.Accounts().GetByEmail(ctx, entity.RoleJobSeeker, "jane@x.com")
	require.NoError(t, err)
	assert.True(t, acc.IsVerified())
	assert.Nil(t, acc.PendingOTP)

	authed, err := f.auth.Authorize(ctx, done.Token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, authed.ID)
	assert.Equal(t, entity.RoleJobSeeker, authed.Role)

	login, err := f.auth.Login(ctx, LoginInput{Email: "jane@x.com", Password: "hunter22!", Role: entity.RoleJobSeeker})
	require.NoError(t, err)
	assert.Equal(t, acc.ID, login.Account.ID)

	assert.Equal(t, []string{mailtpl.SignupOTP, mailtpl.Welcome}, f.notifier.templates())

	var actions []string
	for _, e := range f.store.AuditEntries() {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{"signup_otp_issued", "signup_verified", "login"}, actions)
}

func TestSignupFlow_RecruiterPasswordAtBegin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.auth.BeginSignup(ctx, SignupInput{Email: "rick@acme.test", Role: entity.RoleRecruiter})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.auth.BeginSignup(ctx, SignupInput{Email: "rick@acme.test", Role: entity.RoleRecruiter, Password: "recruit3r!"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginInput{Email: "rick@acme.test", Password: "recruit3r!", Role: entity.RoleRecruiter})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unverified accounts cannot log in")

	_, err = f.auth.CompleteSignup(ctx, CompleteInput{Email: "rick@acme.test", Role: entity.RoleRecruiter, OTP: testOTP, Recruiter: rickProfile()})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginInput{Email: "rick@acme.test", Password: "recruit3r!", Role: entity.RoleRecruiter})
	assert.NoError(t, err)
}

func TestBeginSignup_InvalidEmail(t *testing.T) {
	f := newFixture()
	_, err := f.auth.BeginSignup(context.Background(), SignupInput{Email: "not-an-email", Role: entity.RoleJobSeeker})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.notifier.templates())
}

func TestBeginSignup_AlreadyRegistered(t *testing.T) {
	f := newFixture()
	f.signUpJobSeeker("jane@x.com")

	_, err := f.auth.BeginSignup(context.Background(), SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestBeginSignup_SameEmailOtherRole(t *testing.T) {
	f := newFixture()
	f.signUpJobSeeker("jane@x.com")

	_, err := f.auth.BeginSignup(context.Background(), SignupInput{Email: "jane@x.com", Role: entity.RoleRecruiter, Password: "recruit3r!"})
	assert.NoError(t, err)
}

func TestBeginSignup_NotifyFailureStillSucceeds(t *testing.T) {
	f := newFixture()
	f.notifier.err = errBoom

	_, err := f.auth.BeginSignup(context.Background(), SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	require.NoError(t, err)

	acc, err := f.store.Accounts().GetByEmail(context.Background(), entity.RoleJobSeeker, "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, acc.PendingOTP)
	assert.Equal(t, testOTP, acc.PendingOTP.Code)
}

func TestBeginSignup_ReissueInvalidatesOldCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	codes := []string{"111111", "222222"}
	f.auth.GenOTP = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	_, err := f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	require.NoError(t, err)
	_, err = f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	require.NoError(t, err)

	in := CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: "111111", Password: "hunter22!", JobSeeker: janeProfile()}
	_, err = f.auth.CompleteSignup(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	in.OTP = "222222"
	_, err = f.auth.CompleteSignup(ctx, in)
	assert.NoError(t, err)
}

func TestCompleteSignup_ExpiryBoundary(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"just inside", 9*time.Minute + 59*time.Second, nil},
		{"exactly at expiry", 10 * time.Minute, nil},
		{"just past", 10*time.Minute + time.Second, ErrOTPExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			_, err := f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
			require.NoError(t, err)

			f.clock.Advance(tc.elapsed)
			_, err = f.auth.CompleteSignup(ctx, CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, Password: "hunter22!", JobSeeker: janeProfile()})
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCompleteSignup_WrongCodeBeatsExpiry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	_, err = f.auth.CompleteSignup(ctx, CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: "999999", Password: "hunter22!", JobSeeker: janeProfile()})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestCompleteSignup_MissingFieldsFirst(t *testing.T) {
	f := newFixture()
	profile := janeProfile()
	profile.Location = ""

	_, err := f.auth.CompleteSignup(context.Background(), CompleteInput{Email: "nobody@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, JobSeeker: profile})
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, []string{"password", "location"}, FieldsOf(err))
}

func TestSignup_PasswordLengthBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	long := strings.Repeat("a", 80)

	_, err := f.auth.BeginSignup(ctx, SignupInput{Email: "rick@acme.test", Role: entity.RoleRecruiter, Password: long})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	require.NoError(t, err)

	_, err = f.auth.CompleteSignup(ctx, CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, Password: long, JobSeeker: janeProfile()})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "at most 72 bytes")

	acc, err := f.store.Accounts().GetByEmail(ctx, entity.RoleJobSeeker, "jane@x.com")
	require.NoError(t, err)
	assert.False(t, acc.IsVerified())

	_, err = f.auth.CompleteSignup(ctx, CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, Password: strings.Repeat("a", 72), JobSeeker: janeProfile()})
	assert.NoError(t, err)
}

func TestCompleteSignup_UnknownOrVerifiedIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, Password: "hunter22!", JobSeeker: janeProfile()}

	_, err := f.auth.CompleteSignup(ctx, in)
	assert.ErrorIs(t, err, ErrNotFound)

	f.signUpJobSeeker("jane@x.com")
	_, err = f.auth.CompleteSignup(ctx, in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteSignup_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.auth.BeginSignup(ctx, SignupInput{Email: "jane@x.com", Role: entity.RoleJobSeeker})
	require.NoError(t, err)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.CompleteSignup(ctx, CompleteInput{Email: "jane@x.com", Role: entity.RoleJobSeeker, OTP: testOTP, Password: "hunter22!", JobSeeker: janeProfile()})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrInvalidOTP) || errors.Is(err, ErrNotFound), "unexpected error %v", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUpJobSeeker("jane@x.com")

	cases := []LoginInput{
		{Email: "jane@x.com", Password: "wrong-pass", Role: entity.RoleJobSeeker},
		{Email: "jane@x.com", Password: "hunter22!", Role: entity.RoleRecruiter},
		{Email: "ghost@x.com", Password: "hunter22!", Role: entity.RoleJobSeeker},
		{Email: "jane@x.com", Password: "hunter22!", Role: "admin"},
	}
	for _, in := range cases {
		_, err := f.auth.Login(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%+v", in)
	}
}

func TestAuthorize(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.signUpJobSeeker("jane@x.com")

	_, err := f.auth.Authorize(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	f.clock.Advance(2 * time.Hour)
	_, err = f.auth.Authorize(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired token")

	f.clock.Advance(-2 * time.Hour)
	f.store.Accounts().Delete(entity.RoleJobSeeker, res.Account.ID)
	_, err = f.auth.Authorize(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "deleted account")
}

func TestAuthorize_TokenRoleScopesLookup(t *testing.T) {
	f := newFixture()
	res := f.signUpJobSeeker("jane@x.com")

	forged, _, err := f.auth.JWT.Generate(res.Account.ID, entity.RoleRecruiter.String())
	require.NoError(t, err)
	_, err = f.auth.Authorize(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
