package repository

import (
	"context"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

// AccountRepository persists job seeker and recruiter accounts.
// Every lookup is keyed by role; the same email may exist once per role.
type AccountRepository interface {
	GetByID(ctx context.Context, role entity.Role, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, role entity.Role, email string) (*entity.Account, error)

	// IssueOTP creates the account if absent or replaces its pending OTP,
	// setting state otp_issued. A non-empty PasswordHash overwrites the stored
	// one. Returns ErrStateConflict if the stored account is already verified.
	// On success a.ID, a.CreatedAt and a.UpdatedAt are filled in.
	IssueOTP(ctx context.Context, a *entity.Account) error

	// CompleteVerification stores profile and password, clears the pending OTP
	// and marks the account verified, only if it is not verified yet and its
	// pending code still equals code. Returns ErrStateConflict otherwise.
	CompleteVerification(ctx context.Context, a *entity.Account, code string) error

	// UpdateProfile overwrites the profile of a verified account except the
	// job seeker resume URL, which is left as stored and copied back into a.
	UpdateProfile(ctx context.Context, a *entity.Account) error

	// SetResumeURL points a verified job seeker's profile at an uploaded
	// resume without touching the other profile fields.
	SetResumeURL(ctx context.Context, id, url string) error
}
