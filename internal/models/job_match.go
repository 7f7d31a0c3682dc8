package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MatchDecision string

const (
	DecisionStrongMatch    MatchDecision = "strong_match"
	DecisionGoodMatch      MatchDecision = "good_match"
	DecisionPotentialMatch MatchDecision = "potential_match"
	DecisionWeakMatch      MatchDecision = "weak_match"
	DecisionNoMatch        MatchDecision = "no_match"
)

func (d MatchDecision) Valid() bool {
	switch d {
	case DecisionStrongMatch, DecisionGoodMatch, DecisionPotentialMatch, DecisionWeakMatch, DecisionNoMatch:
		return true
	}
	return false
}

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
	ReviewMaybe    ReviewStatus = "maybe"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected, ReviewMaybe:
		return true
	}
	return false
}

type AnalysisSource string

const (
	SourceAI       AnalysisSource = "ai"
	SourceFallback AnalysisSource = "fallback"
)

const AutoRejectNote = "Auto-rejected: Below minimum threshold"

type SkillMatch struct {
	Score   float64  `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

type FactorMatch struct {
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis,omitempty"`
}

// MatchAnalysis is the multi-factor result produced by the AI analyzer or the
// deterministic fallback.
type MatchAnalysis struct {
	OverallScore    float64       `json:"overall_score"`
	SkillMatch      SkillMatch    `json:"skill_match"`
	ExperienceMatch FactorMatch   `json:"experience_match"`
	EducationMatch  FactorMatch   `json:"education_match"`
	CultureFit      FactorMatch   `json:"culture_fit"`
	Recommendation  MatchDecision `json:"recommendation"`
	Reasoning       string        `json:"reasoning"`
	Confidence      float64       `json:"confidence"`
}

type MatchDetails struct {
	SkillMatch      SkillMatch  `json:"skill_match"`
	ExperienceMatch FactorMatch `json:"experience_match"`
	EducationMatch  FactorMatch `json:"education_match"`
	CultureFit      FactorMatch `json:"culture_fit"`
	OverallFit      int         `json:"overall_fit"`
}

type AIRecommendation struct {
	Decision   MatchDecision `gorm:"type:text" json:"decision"`
	Reasoning  string        `gorm:"type:text" json:"reasoning"`
	Confidence float64       `json:"confidence"`
}

type RecruiterReview struct {
	Status     ReviewStatus `gorm:"type:text;not null;index" json:"status"`
	Notes      string       `gorm:"type:text" json:"notes,omitempty"`
	ReviewedBy *uuid.UUID   `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
}

type JobMatch struct {
	ID                 uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	JobID              uuid.UUID                        `gorm:"type:uuid;not null;index:idx_matches_job_score,priority:1" json:"job_id"`
	CandidateID        uuid.UUID                        `gorm:"type:uuid;not null;index" json:"candidate_id"`
	OrganizationID     uuid.UUID                        `gorm:"type:uuid;not null;index" json:"organization_id"`
	MatchScore         int                              `gorm:"not null;index:idx_matches_job_score,priority:2" json:"match_score"`
	MatchDetails       datatypes.JSONType[MatchDetails] `json:"match_details"`
	SkillGaps          datatypes.JSONSlice[string]      `json:"skill_gaps"`
	Strengths          datatypes.JSONSlice[string]      `json:"strengths"`
	AIRecommendation   AIRecommendation                 `gorm:"embedded;embeddedPrefix:ai_" json:"ai_recommendation"`
	AnalysisSource     AnalysisSource                   `gorm:"type:text;not null" json:"analysis_source"`
	RecruiterReview    RecruiterReview                  `gorm:"embedded;embeddedPrefix:review_" json:"recruiter_review"`
	InterviewScheduled bool                             `json:"interview_scheduled"`
	InterviewID        *uuid.UUID                       `gorm:"type:uuid" json:"interview_id,omitempty"`
	CreatedAt          time.Time                        `json:"created_at"`
	UpdatedAt          time.Time                        `json:"updated_at"`

	Candidate *Resume `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Job       *Job    `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

func (JobMatch) TableName() string {
	return "job_matches"
}

func (m *JobMatch) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	if m.RecruiterReview.Status == "" {
		m.RecruiterReview.Status = ReviewPending
	}
	return nil
}
