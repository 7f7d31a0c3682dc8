package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobDraft    JobStatus = "draft"
	JobActive   JobStatus = "active"
	JobPaused   JobStatus = "paused"
	JobClosed   JobStatus = "closed"
	JobArchived JobStatus = "archived"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobDraft, JobActive, JobPaused, JobClosed, JobArchived:
		return true
	}
	return false
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentTemporary  EmploymentType = "temporary"
)

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentTemporary:
		return true
	}
	return false
}

// ExperienceRange is the required experience window. Nil bounds are unset.
type ExperienceRange struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

// InYears converts a months-based range to years.
func (r ExperienceRange) InYears() ExperienceRange {
	if r.Unit != "months" {
		return r
	}
	conv := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		years := *v / 12
		return &years
	}
	return ExperienceRange{Min: conv(r.Min), Max: conv(r.Max), Unit: "years"}
}

type JobRequirements struct {
	Skills         []string         `json:"skills"`
	Experience     *ExperienceRange `json:"experience,omitempty"`
	Education      string           `json:"education,omitempty"`
	Certifications []string         `json:"certifications,omitempty"`
	Languages      []string         `json:"languages,omitempty"`
}

type JobLocation struct {
	Type     string `json:"type,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type SalaryRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Period   string   `json:"period,omitempty"`
}

type Job struct {
	ID             uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID                           `gorm:"type:uuid;not null;index:idx_jobs_org_status,priority:1" json:"organization_id"`
	RecruiterID    uuid.UUID                           `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	Title          string                              `gorm:"type:text;not null" json:"title"`
	Description    string                              `gorm:"type:text;not null" json:"description"`
	Requirements   datatypes.JSONType[JobRequirements] `json:"requirements"`
	Location       datatypes.JSONType[JobLocation]     `json:"location"`
	EmploymentType EmploymentType                      `gorm:"type:text;not null" json:"employment_type"`
	SalaryRange    datatypes.JSONType[SalaryRange]     `json:"salary_range"`
	Department     string                              `gorm:"type:text" json:"department,omitempty"`
	Status         JobStatus                           `gorm:"type:text;not null;index:idx_jobs_org_status,priority:2" json:"status"`
	PublishedAt    *time.Time                          `json:"published_at,omitempty"`
	ExpiresAt      *time.Time                          `json:"expires_at,omitempty"`
	CreatedAt      time.Time                           `json:"created_at"`
	UpdatedAt      time.Time                           `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	ensureID(&j.ID)
	if j.Status == "" {
		j.Status = JobDraft
	}
	return nil
}
