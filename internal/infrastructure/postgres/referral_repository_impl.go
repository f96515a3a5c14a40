package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

type ReferralRepository struct {
	db DB
}

func NewReferralRepository(db DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

const referralColumns = `id, posted_by, posted_by_role, company_name, job_title, description, location, deadline, status, created_at, updated_at`

func scanReferral(row pgx.Row) (*entity.Referral, error) {
	r := &entity.Referral{}
	var role, status string
	if err := row.Scan(&r.ID, &r.PostedBy, &role, &r.CompanyName, &r.JobTitle, &r.Description, &r.Location,
		&r.Deadline, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	r.PostedByRole = entity.Role(role)
	r.Status = entity.ReferralStatus(status)
	return r, nil
}

func (r *ReferralRepository) Create(ctx context.Context, ref *entity.Referral) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO referrals (posted_by, posted_by_role, company_name, job_title, description, location, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, ref.PostedBy, string(ref.PostedByRole), ref.CompanyName, ref.JobTitle, ref.Description, ref.Location,
		ref.Deadline, string(ref.Status)).Scan(&ref.ID, &ref.CreatedAt, &ref.UpdatedAt)
}

func (r *ReferralRepository) GetByID(ctx context.Context, id string) (*entity.Referral, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanReferral(r.db.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1`, id))
}

func (r *ReferralRepository) List(ctx context.Context, f entity.ReferralFilter) ([]*entity.Referral, error) {
	var (
		where []string
		args  []any
	)
	if f.PostedBy != "" {
		if !validID(f.PostedBy) {
			return []*entity.Referral{}, nil
		}
		args = append(args, f.PostedBy)
		where = append(where, "posted_by = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	q := `SELECT ` + referralColumns + ` FROM referrals`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limitOrDefault(f.Limit), max(f.Offset, 0))
	q += ` ORDER BY deadline ASC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Referral{}
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *ReferralRepository) Update(ctx context.Context, ref *entity.Referral) error {
	err := r.db.QueryRow(ctx, `
		UPDATE referrals SET company_name = $2, job_title = $3, description = $4, location = $5,
			deadline = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, ref.ID, ref.CompanyName, ref.JobTitle, ref.Description, ref.Location, ref.Deadline,
		string(ref.Status)).Scan(&ref.UpdatedAt)
	return notFound(err)
}

func (r *ReferralRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM referrals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReferralRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE referrals SET status = 'expired', updated_at = now()
		WHERE status = 'active' AND deadline < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.ReferralRepository = (*ReferralRepository)(nil)
