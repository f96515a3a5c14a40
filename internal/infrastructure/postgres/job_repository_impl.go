package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

type JobRepository struct {
	db DB
}

func NewJobRepository(db DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, recruiter_id, title, description, company_name, location, employment_type, salary_min, salary_max, skills, status, created_at, updated_at`

func scanJob(row pgx.Row) (*entity.Job, error) {
	j := &entity.Job{}
	var empType, status string
	if err := row.Scan(&j.ID, &j.RecruiterID, &j.Title, &j.Description, &j.CompanyName, &j.Location,
		&empType, &j.SalaryMin, &j.SalaryMax, &j.Skills, &status, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	j.EmploymentType = entity.EmploymentType(empType)
	j.Status = entity.JobStatus(status)
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	if j.Skills == nil {
		j.Skills = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO jobs (recruiter_id, title, description, company_name, location, employment_type, salary_min, salary_max, skills, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, j.RecruiterID, j.Title, j.Description, j.CompanyName, j.Location, string(j.EmploymentType),
		j.SalaryMin, j.SalaryMax, j.Skills, string(j.Status))
	return row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *JobRepository) List(ctx context.Context, f entity.JobFilter) ([]*entity.Job, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.RecruiterID != "" {
		if !validID(f.RecruiterID) {
			return []*entity.Job{}, nil
		}
		add("recruiter_id = ?", f.RecruiterID)
	}
	if f.Status != "" {
		add("status = ?", string(f.Status))
	}
	if f.EmploymentType != "" {
		add("employment_type = ?", string(f.EmploymentType))
	}
	if f.Location != "" {
		add("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.Query != "" {
		add("(title ILIKE ? OR description ILIKE ? OR company_name ILIKE ?)", "%"+f.Query+"%")
	}

	q := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limitOrDefault(f.Limit), max(f.Offset, 0))
	q += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *JobRepository) Update(ctx context.Context, j *entity.Job) error {
	if j.Skills == nil {
		j.Skills = []string{}
	}
	err := r.db.QueryRow(ctx, `
		UPDATE jobs SET title = $2, description = $3, company_name = $4, location = $5, employment_type = $6,
			salary_min = $7, salary_max = $8, skills = $9, status = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, j.ID, j.Title, j.Description, j.CompanyName, j.Location, string(j.EmploymentType),
		j.SalaryMin, j.SalaryMax, j.Skills, string(j.Status)).Scan(&j.UpdatedAt)
	return notFound(err)
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.JobRepository = (*JobRepository)(nil)
