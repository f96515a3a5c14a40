package postgres

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/domain/repository"
)

type AuditRepository struct {
	db DB
}

func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEntry) error {
	var md []byte
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		md = b
	}
	var accountID *string
	if validID(e.AccountID) {
		accountID = &e.AccountID
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (account_id, role, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, accountID, nullable(string(e.Role)), nullable(e.Email), e.Action, nullable(e.IP), nullable(e.UserAgent), md)
	return err
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
