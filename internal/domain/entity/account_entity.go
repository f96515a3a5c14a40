package entity

import (
	"strings"
	"time"
)

// VerificationState tracks the signup state machine:
// unverified -> otp_issued (re-issue loops) -> verified (terminal).
type VerificationState string

const (
	StateUnverified VerificationState = "unverified"
	StateOTPIssued  VerificationState = "otp_issued"
	StateVerified   VerificationState = "verified"
)

// PendingOTP is the single outstanding signup code of an account.
type PendingOTP struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code can no longer be matched at now.
func (p *PendingOTP) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Account is the aggregate root for both job seekers and recruiters.
// Exactly one of JobSeeker / Recruiter is populated, matching Role.
// Passwords are stored as bcrypt hashes in PasswordHash.
type Account struct {
	ID           string
	Email        string
	Role         Role
	PasswordHash string
	State        VerificationState
	PendingOTP   *PendingOTP

	JobSeeker *JobSeekerProfile
	Recruiter *RecruiterProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) IsVerified() bool { return a.State == StateVerified }

// Name returns the display name of whichever profile is set.
func (a *Account) Name() string {
	switch {
	case a.JobSeeker != nil:
		return a.JobSeeker.Name
	case a.Recruiter != nil:
		return a.Recruiter.Name
	}
	return ""
}

type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	FieldOfStudy   string `json:"fieldOfStudy,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`
}

func (e Education) IsZero() bool {
	return strings.TrimSpace(e.Degree) == "" && strings.TrimSpace(e.Institution) == ""
}

type JobSeekerProfile struct {
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Skills      []string  `json:"skills"`
	Experience  string    `json:"experience"`
	Education   Education `json:"education"`
	Location    string    `json:"location"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
}

// MissingFields lists the json names of required fields that are empty.
func (p *JobSeekerProfile) MissingFields() []string {
	if p == nil {
		return []string{"name", "phoneNumber", "skills", "experience", "education", "location"}
	}
	var out []string
	if blank(p.Name) {
		out = append(out, "name")
	}
	if blank(p.PhoneNumber) {
		out = append(out, "phoneNumber")
	}
	if len(nonBlank(p.Skills)) == 0 {
		out = append(out, "skills")
	}
	if blank(p.Experience) {
		out = append(out, "experience")
	}
	if p.Education.IsZero() {
		out = append(out, "education")
	}
	if blank(p.Location) {
		out = append(out, "location")
	}
	return out
}

type RecruiterProfile struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phoneNumber"`
	Designation    string `json:"designation"`
	CompanyName    string `json:"companyName"`
	CompanyWebsite string `json:"companyWebsite"`
}

func (p *RecruiterProfile) MissingFields() []string {
	if p == nil {
		return []string{"name", "phoneNumber", "designation", "companyName", "companyWebsite"}
	}
	var out []string
	if blank(p.Name) {
		out = append(out, "name")
	}
	if blank(p.PhoneNumber) {
		out = append(out, "phoneNumber")
	}
	if blank(p.Designation) {
		out = append(out, "designation")
	}
	if blank(p.CompanyName) {
		out = append(out, "companyName")
	}
	if blank(p.CompanyWebsite) {
		out = append(out, "companyWebsite")
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeSkills trims entries and drops empty ones.
func NormalizeSkills(in []string) []string { return nonBlank(in) }
