package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

func TestReferralRepository_ExpireBefore(t *testing.T) {
	mock := newMock(t)
	repo := NewReferralRepository(mock)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE referrals SET status = 'expired'`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.ExpireBefore(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs("job", "7a0e4a8e-4a53-4d3d-9a3e-7b1d5c1f9e01", "5d1c9b0e-1c11-4a7e-8f3a-2b8e6f0a7c22", "", "hi", "applied").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Application{
		Kind:        entity.ApplyToJob,
		TargetID:    "7a0e4a8e-4a53-4d3d-9a3e-7b1d5c1f9e01",
		ApplicantID: "5d1c9b0e-1c11-4a7e-8f3a-2b8e6f0a7c22",
		CoverLetter: "hi",
		Status:      entity.AppApplied,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_UpdateStatus_Conflict(t *testing.T) {
	mock := newMock(t)
	repo := NewApplicationRepository(mock)

	mock.ExpectQuery(`UPDATE applications SET status = \$3`).
		WithArgs("7a0e4a8e-4a53-4d3d-9a3e-7b1d5c1f9e01", "applied", "reviewed").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.UpdateStatus(context.Background(), "7a0e4a8e-4a53-4d3d-9a3e-7b1d5c1f9e01", entity.AppApplied, entity.AppReviewed)
	assert.ErrorIs(t, err, repository.ErrStateConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewJobRepository(mock)

	mock.ExpectExec(`DELETE FROM jobs`).
		WithArgs("7a0e4a8e-4a53-4d3d-9a3e-7b1d5c1f9e01").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "7a0e4a8e-4a53-4d3d-9a3e-7b1d5c1f9e01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_ForeignRecruiterIDShortCircuits(t *testing.T) {
	mock := newMock(t)
	repo := NewJobRepository(mock)

	jobs, err := repo.List(context.Background(), entity.JobFilter{RecruiterID: "nope"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
