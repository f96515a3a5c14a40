package entity

import "strings"

// Role identifies which account store a record lives in.
// It is part of the account identity key and is carried in session tokens.
type Role string

const (
	RoleJobSeeker Role = "user"
	RoleRecruiter Role = "recruiter"
)

// ParseRole accepts the wire names plus a few historical spellings.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "jobseeker", "job_seeker":
		return RoleJobSeeker, true
	case "recruiter":
		return RoleRecruiter, true
	}
	return "", false
}

func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter
}

func (r Role) String() string { return string(r) }
