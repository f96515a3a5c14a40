package entity

import "time"

// AuditEntry records a security-relevant account event.
type AuditEntry struct {
	AccountID string
	Role      Role
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
