package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("user")
	assert.True(t, ok)
	assert.Equal(t, RoleJobSeeker, r)

	r, ok = ParseRole(" Recruiter ")
	assert.True(t, ok)
	assert.Equal(t, RoleRecruiter, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestPendingOTP_Expired(t *testing.T) {
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	p := &PendingOTP{Code: "123456", ExpiresAt: at}

	assert.False(t, p.Expired(at))
	assert.True(t, p.Expired(at.Add(time.Nanosecond)))
}

func TestJobSeekerProfile_MissingFields(t *testing.T) {
	var nilProfile *JobSeekerProfile
	assert.Len(t, nilProfile.MissingFields(), 6)

	p := &JobSeekerProfile{
		Name:        "Jane",
		PhoneNumber: "9999999999",
		Skills:      []string{" ", ""},
		Education:   Education{Institution: "MIT"},
	}
	assert.Equal(t, []string{"skills", "experience", "location"}, p.MissingFields())
}

func TestRecruiterProfile_MissingFields(t *testing.T) {
	p := &RecruiterProfile{Name: "Rick", PhoneNumber: "1", Designation: "HR", CompanyName: "Acme"}
	assert.Equal(t, []string{"companyWebsite"}, p.MissingFields())
}

func TestApplicationStatus_CanTransition(t *testing.T) {
	assert.True(t, AppApplied.CanTransition(AppReviewed))
	assert.True(t, AppShortlisted.CanTransition(AppHired))
	assert.False(t, AppApplied.CanTransition(AppHired))
	assert.False(t, AppHired.CanTransition(AppRejected))
	assert.False(t, AppWithdrawn.CanTransition(AppApplied))
}

func TestReferral_OwnedBy(t *testing.T) {
	r := &Referral{PostedBy: "a1", PostedByRole: RoleJobSeeker}
	assert.True(t, r.OwnedBy("a1", RoleJobSeeker))
	assert.False(t, r.OwnedBy("a1", RoleRecruiter))
}
