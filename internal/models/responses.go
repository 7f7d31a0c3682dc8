package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchFailure struct {
	ResumeID uuid.UUID `json:"resume_id"`
	Error    string    `json:"error"`
}

type MatchBatchResponse struct {
	Matches []JobMatch     `json:"matches"`
	Failed  []MatchFailure `json:"failed"`
	Count   int            `json:"count"`
}

type BulkUploadItem struct {
	Filename string    `json:"filename"`
	ResumeID uuid.UUID `json:"resume_id"`
}

type BulkUploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type BulkUploadResponse struct {
	Successful []BulkUploadItem    `json:"successful"`
	Failed     []BulkUploadFailure `json:"failed"`
}

type UploadCandidate struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordSent bool      `json:"password_sent"`
}

type UploadInterview struct {
	ID          uuid.UUID `json:"id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UploadResponse struct {
	Resume    *Resume          `json:"resume"`
	Candidate *UploadCandidate `json:"candidate"`
	Interview *UploadInterview `json:"interview"`
	Message   string           `json:"message"`
}

type CandidateSuggestion struct {
	ResumeID uuid.UUID `json:"resume_id"`
	Name     string    `json:"name"`
	Score    float32   `json:"score"`
}

type JobSummary struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Location       JobLocation    `json:"location"`
	EmploymentType EmploymentType `json:"employment_type,omitempty"`
}

type CandidateQuestion struct {
	ID           uuid.UUID    `json:"id"`
	Position     int          `json:"position"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options,omitempty"`
	Answered     bool         `json:"answered"`
}

// CandidateInterview is the token-holder view of an interview: no scores, no analysis.
type CandidateInterview struct {
	ID        uuid.UUID           `json:"id"`
	Job       *JobSummary         `json:"job,omitempty"`
	Status    InterviewStatus     `json:"status"`
	ExpiresAt time.Time           `json:"expires_at"`
	Questions []CandidateQuestion `json:"questions"`
}

type AnswerResponse struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type CompletionResponse struct {
	OverallScore   *int                    `json:"overall_score"`
	Recommendation InterviewRecommendation `json:"recommendation"`
}

type ApplicationStatus struct {
	Status       InterviewStatus `json:"status"`
	JobTitle     string          `json:"job_title,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	OverallScore *int            `json:"overall_score,omitempty"`
}

type OrganizationDetail struct {
	Organization *Organization    `json:"organization"`
	Stats        OrganizationStats `json:"stats"`
}
