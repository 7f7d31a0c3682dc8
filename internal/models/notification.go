package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationInterviewInvitation NotificationType = "interview_invitation"
	NotificationInterviewCompleted  NotificationType = "interview_completed"
	NotificationMatchFound          NotificationType = "match_found"
	NotificationJobApplication      NotificationType = "job_application"
	NotificationStatusUpdate        NotificationType = "status_update"
	NotificationSystemAlert         NotificationType = "system_alert"
	NotificationReminder            NotificationType = "reminder"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

type Notification struct {
	ID             uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID            `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	OrganizationID *uuid.UUID           `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Type           NotificationType     `gorm:"type:text;not null" json:"type"`
	Title          string               `gorm:"type:text;not null" json:"title"`
	Message        string               `gorm:"type:text;not null" json:"message"`
	Data           datatypes.JSONMap    `json:"data,omitempty"`
	Priority       NotificationPriority `gorm:"type:text;not null" json:"priority"`
	Read           bool                 `gorm:"column:is_read;index:idx_notifications_user_read,priority:2" json:"read"`
	ReadAt         *time.Time           `json:"read_at,omitempty"`
	ActionURL      string               `gorm:"type:text" json:"action_url,omitempty"`
	ExpiresAt      *time.Time           `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt      time.Time            `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	return nil
}
