package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InterviewStatus string

const (
	InterviewInvited    InterviewStatus = "invited"
	InterviewInProgress InterviewStatus = "in_progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewExpired    InterviewStatus = "expired"
	InterviewCancelled  InterviewStatus = "cancelled"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewInvited, InterviewInProgress, InterviewCompleted, InterviewExpired, InterviewCancelled:
		return true
	}
	return false
}

// Terminal states accept no further mutation of questions or scores.
func (s InterviewStatus) Terminal() bool {
	return s == InterviewCompleted || s == InterviewExpired || s == InterviewCancelled
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionTechnical      QuestionType = "technical"
	QuestionSituational    QuestionType = "situational"
	QuestionBehavioral     QuestionType = "behavioral"
)

func (q QuestionType) Valid() bool {
	switch q {
	case QuestionMultipleChoice, QuestionOpenEnded, QuestionTechnical, QuestionSituational, QuestionBehavioral:
		return true
	}
	return false
}

type InterviewRecommendation string

const (
	RecommendStrongYes InterviewRecommendation = "strong_yes"
	RecommendYes       InterviewRecommendation = "yes"
	RecommendMaybe     InterviewRecommendation = "maybe"
	RecommendNo        InterviewRecommendation = "no"
	RecommendStrongNo  InterviewRecommendation = "strong_no"
)

func (r InterviewRecommendation) Valid() bool {
	switch r {
	case RecommendStrongYes, RecommendYes, RecommendMaybe, RecommendNo, RecommendStrongNo:
		return true
	}
	return false
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AnswerAnalysis is the per-question AI result.
type AnswerAnalysis struct {
	Score      float64   `json:"score"`
	Strengths  []string  `json:"strengths"`
	Weaknesses []string  `json:"weaknesses"`
	KeyPoints  []string  `json:"key_points"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Feedback   string    `json:"feedback,omitempty"`
}

// InterviewAssessment is the aggregate AI result over the whole transcript.
type InterviewAssessment struct {
	TechnicalScore      float64                 `json:"technical_score"`
	CommunicationScore  float64                 `json:"communication_score"`
	ProblemSolvingScore float64                 `json:"problem_solving_score"`
	CultureFitScore     float64                 `json:"culture_fit_score"`
	Strengths           []string                `json:"strengths"`
	Concerns            []string                `json:"concerns"`
	KeyInsights         []string                `json:"key_insights"`
	Recommendation      InterviewRecommendation `json:"recommendation"`
	Confidence          float64                 `json:"confidence"`
}

type InterviewFeedback struct {
	Rating      *int       `json:"rating,omitempty"`
	Comments    string     `gorm:"type:text" json:"comments,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type InterviewQuestion struct {
	ID                   uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID          uuid.UUID                          `gorm:"type:uuid;not null;index" json:"-"`
	Position             int                                `gorm:"not null" json:"position"`
	QuestionText         string                             `gorm:"type:text;not null" json:"question_text"`
	QuestionType         QuestionType                       `gorm:"type:text;not null" json:"question_type"`
	Options              datatypes.JSONSlice[string]        `json:"options,omitempty"`
	ExpectedAnswerPoints datatypes.JSONSlice[string]        `json:"expected_answer_points,omitempty"`
	Answer               *string                            `gorm:"type:text" json:"answer,omitempty"`
	AIScore              *int                               `json:"ai_score,omitempty"`
	AIAnalysis           datatypes.JSONType[AnswerAnalysis] `json:"ai_analysis"`
	TimeSpent            int                                `json:"time_spent"`
	AnsweredAt           *time.Time                         `json:"answered_at,omitempty"`
}

func (InterviewQuestion) TableName() string {
	return "interview_questions"
}

func (q *InterviewQuestion) BeforeCreate(tx *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

// Answered reports whether the candidate submitted a non-empty answer.
func (q *InterviewQuestion) Answered() bool {
	return q.Answer != nil && *q.Answer != ""
}

type Interview struct {
	ID               uuid.UUID                               `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID   uuid.UUID                               `gorm:"type:uuid;not null;index:idx_interviews_org_status,priority:1" json:"organization_id"`
	JobMatchID       *uuid.UUID                              `gorm:"type:uuid" json:"job_match_id,omitempty"`
	CandidateID      uuid.UUID                               `gorm:"type:uuid;not null;index" json:"candidate_id"`
	CandidateName    string                                  `gorm:"type:text" json:"candidate_name,omitempty"`
	CandidateEmail   string                                  `gorm:"type:text" json:"candidate_email,omitempty"`
	JobID            *uuid.UUID                              `gorm:"type:uuid;index" json:"job_id,omitempty"`
	InvitedBy        uuid.UUID                               `gorm:"type:uuid;not null;index" json:"invited_by"`
	TemplateID       *uuid.UUID                              `gorm:"type:uuid" json:"template_id,omitempty"`
	Status           InterviewStatus                         `gorm:"type:text;not null;index:idx_interviews_org_status,priority:2" json:"status"`
	AccessToken      string                                  `gorm:"type:text;not null;uniqueIndex" json:"access_token,omitempty"`
	InvitationSentAt *time.Time                              `json:"invitation_sent_at,omitempty"`
	StartedAt        *time.Time                              `json:"started_at,omitempty"`
	CompletedAt      *time.Time                              `json:"completed_at,omitempty"`
	ExpiresAt        time.Time                               `gorm:"not null;index" json:"expires_at"`
	Questions        []InterviewQuestion                     `gorm:"foreignKey:InterviewID" json:"questions"`
	OverallScore     *int                                    `json:"overall_score,omitempty"`
	AIAssessment     datatypes.JSONType[InterviewAssessment] `json:"ai_assessment"`
	Feedback         InterviewFeedback                       `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback"`
	CreatedAt        time.Time                               `json:"created_at"`
	UpdatedAt        time.Time                               `json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	if i.Status == "" {
		i.Status = InterviewInvited
	}
	return nil
}

// AnsweredQuestions returns questions with a submitted answer, in order.
func (i *Interview) AnsweredQuestions() []InterviewQuestion {
	answered := make([]InterviewQuestion, 0, len(i.Questions))
	for _, q := range i.Questions {
		if q.Answered() {
			answered = append(answered, q)
		}
	}
	return answered
}

// IsPastExpiry reports whether now is strictly after the expiry instant.
func (i *Interview) IsPastExpiry(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
