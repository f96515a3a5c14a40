package entity

import "time"

type ApplicationKind string

const (
	ApplyToJob      ApplicationKind = "job"
	ApplyToReferral ApplicationKind = "referral"
)

type ApplicationStatus string

const (
	AppApplied     ApplicationStatus = "applied"
	AppReviewed    ApplicationStatus = "reviewed"
	AppShortlisted ApplicationStatus = "shortlisted"
	AppRejected    ApplicationStatus = "rejected"
	AppHired       ApplicationStatus = "hired"
	AppWithdrawn   ApplicationStatus = "withdrawn"
)

var appTransitions = map[ApplicationStatus][]ApplicationStatus{
	AppApplied:     {AppReviewed, AppShortlisted, AppRejected, AppWithdrawn},
	AppReviewed:    {AppShortlisted, AppRejected, AppWithdrawn},
	AppShortlisted: {AppHired, AppRejected},
}

// CanTransition reports whether moving from s to next is allowed.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, n := range appTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case AppApplied, AppReviewed, AppShortlisted, AppRejected, AppHired, AppWithdrawn:
		return true
	}
	return false
}

// Application links a job seeker to a job or a referral.
// (Kind, TargetID, ApplicantID) is unique.
type Application struct {
	ID          string
	Kind        ApplicationKind
	TargetID    string
	ApplicantID string
	ResumeURL   string
	CoverLetter string
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
