package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/apperr"
)

// WeightTolerance is the allowed drift of the weight sum from 1.0.
const WeightTolerance = 0.01

type MatchThresholds struct {
	MinimumMatchScore float64 `gorm:"not null" json:"minimum_match_score"`
	StrongMatchScore  float64 `gorm:"not null" json:"strong_match_score"`
	AutoRejectScore   float64 `gorm:"not null" json:"auto_reject_score"`
}

type MatchWeights struct {
	SkillMatch      float64 `gorm:"not null" json:"skill_match"`
	ExperienceMatch float64 `gorm:"not null" json:"experience_match"`
	EducationMatch  float64 `gorm:"not null" json:"education_match"`
	CultureFit      float64 `gorm:"not null" json:"culture_fit"`
}

func (w MatchWeights) Sum() float64 {
	return w.SkillMatch + w.ExperienceMatch + w.EducationMatch + w.CultureFit
}

type MatchingConfig struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"organization_id"`
	Thresholds          MatchThresholds `gorm:"embedded;embeddedPrefix:threshold_" json:"thresholds"`
	Weights             MatchWeights    `gorm:"embedded;embeddedPrefix:weight_" json:"weights"`
	AutoMatchingEnabled bool            `json:"auto_matching_enabled"`
	AIEnabled           bool            `json:"ai_enabled"`
	NotifyOnStrongMatch bool            `json:"notify_on_strong_match"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (MatchingConfig) TableName() string {
	return "matching_configs"
}

func (c *MatchingConfig) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func DefaultMatchingConfig(orgID uuid.UUID) *MatchingConfig {
	return &MatchingConfig{
		OrganizationID: orgID,
		Thresholds: MatchThresholds{
			MinimumMatchScore: 60,
			StrongMatchScore:  80,
			AutoRejectScore:   30,
		},
		Weights: MatchWeights{
			SkillMatch:      0.4,
			ExperienceMatch: 0.3,
			EducationMatch:  0.15,
			CultureFit:      0.15,
		},
		AutoMatchingEnabled: true,
		AIEnabled:           true,
		NotifyOnStrongMatch: true,
	}
}

// Validate must pass before any write of the config.
func (c *MatchingConfig) Validate() error {
	weights := map[string]float64{
		"weights.skill_match":      c.Weights.SkillMatch,
		"weights.experience_match": c.Weights.ExperienceMatch,
		"weights.education_match":  c.Weights.EducationMatch,
		"weights.culture_fit":      c.Weights.CultureFit,
	}
	for field, w := range weights {
		if w < 0 || w > 1 {
			return apperr.Validation(field, "must be between 0 and 1, got %v", w)
		}
	}

	thresholds := map[string]float64{
		"thresholds.minimum_match_score": c.Thresholds.MinimumMatchScore,
		"thresholds.strong_match_score":  c.Thresholds.StrongMatchScore,
		"thresholds.auto_reject_score":   c.Thresholds.AutoRejectScore,
	}
	for field, v := range thresholds {
		if v < 0 || v > 100 {
			return apperr.Validation(field, "must be between 0 and 100, got %v", v)
		}
	}

	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > WeightTolerance {
		return apperr.Validation("weights", "must sum to 1.0, got %.4f", sum)
	}

	return nil
}
