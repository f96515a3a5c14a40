package entity

import "time"

type ReferralStatus string

const (
	ReferralActive  ReferralStatus = "active"
	ReferralExpired ReferralStatus = "expired"
	ReferralClosed  ReferralStatus = "closed"
)

// Referral is an offer by an insider to refer applicants to an opening
// at their company until Deadline.
type Referral struct {
	ID           string
	PostedBy     string
	PostedByRole Role
	CompanyName  string
	JobTitle     string
	Description  string
	Location     string
	Deadline     time.Time
	Status       ReferralStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether the account posted this referral.
func (r *Referral) OwnedBy(accountID string, role Role) bool {
	return r.PostedBy == accountID && r.PostedByRole == role
}

type ReferralFilter struct {
	PostedBy string
	Status   ReferralStatus
	Limit    int
	Offset   int
}
