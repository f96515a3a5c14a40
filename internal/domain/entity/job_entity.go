package entity

import "time"

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

type EmploymentType string

const (
	FullTime   EmploymentType = "full-time"
	PartTime   EmploymentType = "part-time"
	Contract   EmploymentType = "contract"
	Internship EmploymentType = "internship"
)

// Job is a posting owned by exactly one recruiter.
type Job struct {
	ID             string
	RecruiterID    string
	Title          string
	Description    string
	CompanyName    string
	Location       string
	EmploymentType EmploymentType
	SalaryMin      int64
	SalaryMax      int64
	Skills         []string
	Status         JobStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JobFilter narrows job listings; zero values mean "any".
type JobFilter struct {
	RecruiterID    string
	Query          string
	Location       string
	EmploymentType EmploymentType
	Status         JobStatus
	Limit          int
	Offset         int
}
