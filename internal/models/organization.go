package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	PlanFreemium     SubscriptionPlan = "freemium"
	PlanProfessional SubscriptionPlan = "professional"
	PlanEnterprise   SubscriptionPlan = "enterprise"
	PlanCustom       SubscriptionPlan = "custom"
)

type OrganizationStatus string

const (
	OrganizationActive    OrganizationStatus = "active"
	OrganizationInactive  OrganizationStatus = "inactive"
	OrganizationSuspended OrganizationStatus = "suspended"
)

type Branding struct {
	Logo           string `json:"logo,omitempty"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

type OrganizationSettings struct {
	MatchingThreshold int      `json:"matching_threshold"`
	EmailDomain       string   `json:"email_domain,omitempty"`
	Branding          Branding `json:"branding"`
	EmailEnabled      bool     `json:"email_enabled"`
	SMSEnabled        bool     `json:"sms_enabled"`
}

func DefaultOrganizationSettings() OrganizationSettings {
	return OrganizationSettings{
		MatchingThreshold: 70,
		Branding: Branding{
			PrimaryColor:   "#667eea",
			SecondaryColor: "#764ba2",
		},
		EmailEnabled: true,
	}
}

type Subscription struct {
	Plan           SubscriptionPlan `gorm:"type:text;not null" json:"plan"`
	Status         string           `gorm:"type:text;not null" json:"status"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
	MaxRecruiters  int              `gorm:"not null" json:"max_recruiters"`
	MaxJobPostings int              `gorm:"not null" json:"max_job_postings"`
}

type Organization struct {
	ID           uuid.UUID                                `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                                   `gorm:"type:text;not null" json:"name"`
	Domain       *string                                  `gorm:"type:text;uniqueIndex" json:"domain,omitempty"`
	Subscription Subscription                             `gorm:"embedded;embeddedPrefix:subscription_" json:"subscription"`
	Settings     datatypes.JSONType[OrganizationSettings] `json:"settings"`
	ContactEmail string                                   `gorm:"type:text" json:"contact_email,omitempty"`
	ContactName  string                                   `gorm:"type:text" json:"contact_name,omitempty"`
	Status       OrganizationStatus                       `gorm:"type:text;not null;index" json:"status"`
	CreatedAt    time.Time                                `json:"created_at"`
	UpdatedAt    time.Time                                `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	if o.Status == "" {
		o.Status = OrganizationActive
	}
	if o.Subscription.Plan == "" {
		o.Subscription.Plan = PlanFreemium
	}
	if o.Subscription.Status == "" {
		o.Subscription.Status = "trial"
	}
	if o.Subscription.StartDate.IsZero() {
		o.Subscription.StartDate = time.Now()
	}
	if o.Subscription.MaxRecruiters == 0 {
		o.Subscription.MaxRecruiters = 5
	}
	if o.Subscription.MaxJobPostings == 0 {
		o.Subscription.MaxJobPostings = 5
	}
	return nil
}

// OrganizationStats is attached to the super-admin organization detail view.
type OrganizationStats struct {
	TotalUsers int64 `json:"total_users"`
	Recruiters int64 `json:"recruiters"`
	Jobs       int64 `json:"jobs"`
}
