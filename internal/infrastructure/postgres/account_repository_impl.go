package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

// AccountRepository stores each role in its own table with identical columns;
// the role-specific profile is kept as JSONB.
type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func tableFor(role entity.Role) (string, error) {
	switch role {
	case entity.RoleJobSeeker:
		return "job_seekers", nil
	case entity.RoleRecruiter:
		return "recruiters", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

const accountColumns = `id, email, password_hash, verification_state, otp_code, otp_expires_at, profile, created_at, updated_at`

func scanAccount(row pgx.Row, role entity.Role) (*entity.Account, error) {
	a := &entity.Account{Role: role}
	var (
		state     string
		otpCode   *string
		otpExpiry *time.Time
		profile   []byte
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &state, &otpCode, &otpExpiry, &profile,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	a.State = entity.VerificationState(state)
	if otpCode != nil && otpExpiry != nil {
		a.PendingOTP = &entity.PendingOTP{Code: *otpCode, ExpiresAt: *otpExpiry}
	}
	if len(profile) > 0 {
		if err := unmarshalProfile(a, profile); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func unmarshalProfile(a *entity.Account, raw []byte) error {
	switch a.Role {
	case entity.RoleJobSeeker:
		a.JobSeeker = &entity.JobSeekerProfile{}
		return json.Unmarshal(raw, a.JobSeeker)
	case entity.RoleRecruiter:
		a.Recruiter = &entity.RecruiterProfile{}
		return json.Unmarshal(raw, a.Recruiter)
	}
	return nil
}

func marshalProfile(a *entity.Account) ([]byte, error) {
	switch {
	case a.Role == entity.RoleJobSeeker && a.JobSeeker != nil:
		return json.Marshal(a.JobSeeker)
	case a.Role == entity.RoleRecruiter && a.Recruiter != nil:
		return json.Marshal(a.Recruiter)
	}
	return nil, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, role entity.Role, id string) (*entity.Account, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM `+table+` WHERE id = $1`, id)
	return scanAccount(row, role)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, role entity.Role, email string) (*entity.Account, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM `+table+` WHERE email = $1`, email)
	return scanAccount(row, role)
}

func (r *AccountRepository) IssueOTP(ctx context.Context, a *entity.Account) error {
	table, err := tableFor(a.Role)
	if err != nil {
		return err
	}
	if a.PendingOTP == nil {
		return errors.New("issue otp: missing pending code")
	}
	// The WHERE on the conflict branch keeps a verified account closed even if
	// a signup races its completion.
	q := fmt.Sprintf(`
		INSERT INTO %[1]s (email, password_hash, verification_state, otp_code, otp_expires_at)
		VALUES ($1, $2, 'otp_issued', $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = CASE WHEN EXCLUDED.password_hash <> '' THEN EXCLUDED.password_hash ELSE %[1]s.password_hash END,
			verification_state = 'otp_issued',
			otp_code = EXCLUDED.otp_code,
			otp_expires_at = EXCLUDED.otp_expires_at,
			updated_at = now()
		WHERE %[1]s.verification_state <> 'verified'
		RETURNING id, created_at, updated_at
	`, table)
	err = r.db.QueryRow(ctx, q, a.Email, a.PasswordHash, a.PendingOTP.Code, a.PendingOTP.ExpiresAt).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrStateConflict
	}
	if err != nil {
		return err
	}
	a.State = entity.StateOTPIssued
	return nil
}

func (r *AccountRepository) CompleteVerification(ctx context.Context, a *entity.Account, code string) error {
	table, err := tableFor(a.Role)
	if err != nil {
		return err
	}
	profile, err := marshalProfile(a)
	if err != nil {
		return err
	}
	q := `
		UPDATE ` + table + ` SET
			password_hash = CASE WHEN $2::text <> '' THEN $2::text ELSE password_hash END,
			profile = $3,
			verification_state = 'verified',
			otp_code = NULL,
			otp_expires_at = NULL,
			updated_at = now()
		WHERE id = $1 AND verification_state <> 'verified' AND otp_code = $4
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, q, a.ID, a.PasswordHash, profile, code).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrStateConflict
	}
	if err != nil {
		return err
	}
	a.State = entity.StateVerified
	a.PendingOTP = nil
	return nil
}

// UpdateProfile writes everything but the stored resume URL, which only
// SetResumeURL changes, and reads that URL back into a.
func (r *AccountRepository) UpdateProfile(ctx context.Context, a *entity.Account) error {
	table, err := tableFor(a.Role)
	if err != nil {
		return err
	}
	profile, err := marshalProfile(a)
	if err != nil {
		return err
	}
	var resumeURL string
	err = r.db.QueryRow(ctx, `
		UPDATE `+table+`
		SET profile = ($2::jsonb - 'resumeUrl') || jsonb_strip_nulls(jsonb_build_object('resumeUrl', profile->'resumeUrl')),
		    updated_at = now()
		WHERE id = $1 AND verification_state = 'verified'
		RETURNING COALESCE(profile->>'resumeUrl', ''), updated_at
	`, a.ID, profile).Scan(&resumeURL, &a.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	if a.JobSeeker != nil {
		a.JobSeeker.ResumeURL = resumeURL
	}
	return nil
}

func (r *AccountRepository) SetResumeURL(ctx context.Context, id, url string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `
		UPDATE job_seekers
		SET profile = jsonb_set(COALESCE(profile, '{}'::jsonb), '{resumeUrl}', to_jsonb($2::text)),
		    updated_at = now()
		WHERE id = $1 AND verification_state = 'verified'
	`, id, url)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
