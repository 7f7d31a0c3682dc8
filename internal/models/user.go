package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleCustomerAdmin Role = "customer_admin"
	RoleRecruiter     Role = "recruiter"
	RoleCandidate     Role = "candidate"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCustomerAdmin, RoleRecruiter, RoleCandidate:
		return true
	}
	return false
}

// RequiresOrganization reports whether users with this role must belong to a tenant.
func (r Role) RequiresOrganization() bool {
	return r == RoleCustomerAdmin || r == RoleRecruiter
}

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

type UserProfile struct {
	FirstName string `gorm:"type:text" json:"first_name,omitempty"`
	LastName  string `gorm:"type:text" json:"last_name,omitempty"`
	Phone     string `gorm:"type:text" json:"phone,omitempty"`
	Timezone  string `gorm:"type:text" json:"timezone,omitempty"`
	Language  string `gorm:"type:text" json:"language,omitempty"`
}

type User struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Email                string      `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Username             string      `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash         string      `gorm:"type:text;not null" json:"-"`
	Role                 Role        `gorm:"type:text;not null;index:idx_users_org_role,priority:2" json:"role"`
	OrganizationID       *uuid.UUID  `gorm:"type:uuid;index:idx_users_org_role,priority:1" json:"organization_id,omitempty"`
	Profile              UserProfile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	Status               UserStatus  `gorm:"type:text;not null;index" json:"status"`
	LastLoginAt          *time.Time  `json:"last_login_at,omitempty"`
	EmailNotifications   bool        `json:"email_notifications"`
	PasswordResetToken   *string     `gorm:"type:text;index" json:"-"`
	PasswordResetExpires *time.Time  `json:"-"`
	MustChangePassword   bool        `json:"must_change_password"`
	ResumeID             *uuid.UUID  `gorm:"type:uuid" json:"resume_id,omitempty"`
	InterviewID          *uuid.UUID  `gorm:"type:uuid" json:"interview_id,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	if u.Status == "" {
		u.Status = UserActive
	}
	if u.Profile.Timezone == "" {
		u.Profile.Timezone = "UTC"
	}
	if u.Profile.Language == "" {
		u.Profile.Language = "en"
	}
	return nil
}

func (u *User) FullName() string {
	if u.Profile.FirstName != "" && u.Profile.LastName != "" {
		return u.Profile.FirstName + " " + u.Profile.LastName
	}
	return u.Username
}

// Caller is the authenticated identity every scoped operation receives.
type Caller struct {
	UserID         uuid.UUID
	Role           Role
	OrganizationID *uuid.UUID
}

// OrgID returns the caller's tenant or uuid.Nil for unscoped roles.
func (c *Caller) OrgID() uuid.UUID {
	if c == nil || c.OrganizationID == nil {
		return uuid.Nil
	}
	return *c.OrganizationID
}
