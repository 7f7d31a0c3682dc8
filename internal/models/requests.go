package models

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest accepts either an email or a username in Email.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type CreateOrganizationRequest struct {
	Name           string                `json:"name"`
	Domain         string                `json:"domain"`
	ContactEmail   string                `json:"contact_email"`
	ContactName    string                `json:"contact_name"`
	Plan           SubscriptionPlan      `json:"plan"`
	MaxRecruiters  int                   `json:"max_recruiters"`
	MaxJobPostings int                   `json:"max_job_postings"`
	Settings       *OrganizationSettings `json:"settings"`
}

type UpdateOrganizationRequest struct {
	Name           *string             `json:"name"`
	Domain         *string             `json:"domain"`
	ContactEmail   *string             `json:"contact_email"`
	ContactName    *string             `json:"contact_name"`
	Plan           *SubscriptionPlan   `json:"plan"`
	Status         *OrganizationStatus `json:"status"`
	MaxRecruiters  *int                `json:"max_recruiters"`
	MaxJobPostings *int                `json:"max_job_postings"`
}

type CreateUserRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type UpdateUserRequest struct {
	FirstName *string     `json:"first_name"`
	LastName  *string     `json:"last_name"`
	Phone     *string     `json:"phone"`
	Status    *UserStatus `json:"status"`
	Password  *string     `json:"password"`
}

type JobRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Requirements   JobRequirements `json:"requirements"`
	Location       JobLocation     `json:"location"`
	EmploymentType EmploymentType  `json:"employment_type"`
	SalaryRange    SalaryRange     `json:"salary_range"`
	Department     string          `json:"department"`
	Status         JobStatus       `json:"status"`
	ExpiresAt      *time.Time      `json:"expires_at"`
}

type PublicJobFilter struct {
	Search         string
	EmploymentType EmploymentType
	Location       string
}

type ResumeUploadRequest struct {
	CandidateName  string
	CandidateEmail string
	CandidatePhone string
	JobID          *uuid.UUID
}

type PasteResumeRequest struct {
	CandidateInfo CandidateInfo `json:"candidate_info"`
	RawText       string        `json:"raw_text"`
}

type UpdateResumeStatusRequest struct {
	Status ResumeStatus `json:"status"`
}

type MatchRequest struct {
	JobID     uuid.UUID   `json:"job_id"`
	ResumeIDs []uuid.UUID `json:"resume_ids"`
}

type ReviewRequest struct {
	Status ReviewStatus `json:"status"`
	Notes  string       `json:"notes"`
}

type UpdateMatchingConfigRequest struct {
	Thresholds          *MatchThresholds `json:"thresholds"`
	Weights             *MatchWeights    `json:"weights"`
	AutoMatchingEnabled *bool            `json:"auto_matching_enabled"`
	AIEnabled           *bool            `json:"ai_enabled"`
	NotifyOnStrongMatch *bool            `json:"notify_on_strong_match"`
}

type InviteRequest struct {
	MatchID       uuid.UUID  `json:"match_id"`
	TemplateID    *uuid.UUID `json:"template_id"`
	ExpiresInDays int        `json:"expires_in_days"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

type CandidateDetailsRequest struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
}

type AnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id"`
	Answer     string    `json:"answer"`
	TimeSpent  int       `json:"time_spent"`
}

type TemplateRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Category      TemplateCategory   `json:"category"`
	JobRole       string             `json:"job_role"`
	Industry      string             `json:"industry"`
	Questions     []TemplateQuestion `json:"questions"`
	TotalDuration int                `json:"total_duration"`
	PassingScore  int                `json:"passing_score"`
}
