package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

type ApplicationRepository struct {
	db DB
}

func NewApplicationRepository(db DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, kind, target_id, applicant_id, resume_url, cover_letter, status, created_at, updated_at`

func scanApplication(row pgx.Row) (*entity.Application, error) {
	a := &entity.Application{}
	var kind, status string
	if err := row.Scan(&a.ID, &kind, &a.TargetID, &a.ApplicantID, &a.ResumeURL, &a.CoverLetter, &status,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	a.Kind = entity.ApplicationKind(kind)
	a.Status = entity.ApplicationStatus(status)
	return a, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO applications (kind, target_id, applicant_id, resume_url, cover_letter, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, string(a.Kind), a.TargetID, a.ApplicantID, a.ResumeURL, a.CoverLetter, string(a.Status)).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *ApplicationRepository) ListByTarget(ctx context.Context, kind entity.ApplicationKind, targetID string) ([]*entity.Application, error) {
	if !validID(targetID) {
		return []*entity.Application{}, nil
	}
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE kind = $1 AND target_id = $2 ORDER BY created_at ASC`,
		string(kind), targetID)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*entity.Application, error) {
	if !validID(applicantID) {
		return []*entity.Application{}, nil
	}
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`,
		applicantID)
}

func (r *ApplicationRepository) list(ctx context.Context, q string, args ...any) ([]*entity.Application, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*entity.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to entity.ApplicationStatus) (*entity.Application, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	a, err := scanApplication(r.db.QueryRow(ctx, `
		UPDATE applications SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+applicationColumns, id, string(from), string(to)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, repository.ErrStateConflict
	}
	return a, err
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
