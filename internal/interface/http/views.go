package handlers

import (
	"time"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

type jobSeekerView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	entity.JobSeekerProfile
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toJobSeekerView(a *entity.Account) jobSeekerView {
	v := jobSeekerView{ID: a.ID, Email: a.Email, Role: a.Role.String(), CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
	if a.JobSeeker != nil {
		v.JobSeekerProfile = *a.JobSeeker
	}
	if v.Skills == nil {
		v.Skills = []string{}
	}
	return v
}

type recruiterView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	entity.RecruiterProfile
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRecruiterView(a *entity.Account) recruiterView {
	v := recruiterView{ID: a.ID, Email: a.Email, Role: a.Role.String(), CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
	if a.Recruiter != nil {
		v.RecruiterProfile = *a.Recruiter
	}
	return v
}

// recruiterCard is the public view of a recruiter; no contact details.
type recruiterCard struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	CompanyName    string `json:"companyName"`
	CompanyWebsite string `json:"companyWebsite"`
}

func toRecruiterCard(a *entity.Account) recruiterCard {
	c := recruiterCard{ID: a.ID}
	if p := a.Recruiter; p != nil {
		c.Name, c.Designation, c.CompanyName, c.CompanyWebsite = p.Name, p.Designation, p.CompanyName, p.CompanyWebsite
	}
	return c
}

type jobView struct {
	ID             string    `json:"id"`
	RecruiterID    string    `json:"recruiterId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CompanyName    string    `json:"companyName"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employmentType"`
	SalaryMin      int64     `json:"salaryMin,omitempty"`
	SalaryMax      int64     `json:"salaryMax,omitempty"`
	Skills         []string  `json:"skills"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toJobView(j *entity.Job) jobView {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return jobView{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		Description:    j.Description,
		CompanyName:    j.CompanyName,
		Location:       j.Location,
		EmploymentType: string(j.EmploymentType),
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Skills:         skills,
		Status:         string(j.Status),
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

func toJobViews(in []*entity.Job) []jobView {
	out := make([]jobView, 0, len(in))
	for _, j := range in {
		out = append(out, toJobView(j))
	}
	return out
}

type referralView struct {
	ID           string    `json:"id"`
	PostedBy     string    `json:"postedBy"`
	PostedByRole string    `json:"postedByRole"`
	CompanyName  string    `json:"companyName"`
	JobTitle     string    `json:"jobTitle"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Deadline     time.Time `json:"deadline"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toReferralView(r *entity.Referral) referralView {
	return referralView{
		ID:           r.ID,
		PostedBy:     r.PostedBy,
		PostedByRole: r.PostedByRole.String(),
		CompanyName:  r.CompanyName,
		JobTitle:     r.JobTitle,
		Description:  r.Description,
		Location:     r.Location,
		Deadline:     r.Deadline,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toReferralViews(in []*entity.Referral) []referralView {
	out := make([]referralView, 0, len(in))
	for _, r := range in {
		out = append(out, toReferralView(r))
	}
	return out
}

type applicationView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	TargetID    string    `json:"targetId"`
	ApplicantID string    `json:"applicantId"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
	CoverLetter string    `json:"coverLetter,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toApplicationView(a *entity.Application) applicationView {
	return applicationView{
		ID:          a.ID,
		Kind:        string(a.Kind),
		TargetID:    a.TargetID,
		ApplicantID: a.ApplicantID,
		ResumeURL:   a.ResumeURL,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toApplicationViews(in []*entity.Application) []applicationView {
	out := make([]applicationView, 0, len(in))
	for _, a := range in {
		out = append(out, toApplicationView(a))
	}
	return out
}
