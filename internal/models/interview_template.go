package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TemplateCategory string

const (
	CategoryTechnical   TemplateCategory = "technical"
	CategoryBehavioral  TemplateCategory = "behavioral"
	CategoryGeneral     TemplateCategory = "general"
	CategorySituational TemplateCategory = "situational"
	CategoryCustom      TemplateCategory = "custom"
)

func (c TemplateCategory) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategoryGeneral, CategorySituational, CategoryCustom:
		return true
	}
	return false
}

type TemplateQuestion struct {
	Text                 string       `json:"text" yaml:"text"`
	Type                 QuestionType `json:"type" yaml:"type"`
	Options              []string     `json:"options,omitempty" yaml:"options,omitempty"`
	ExpectedAnswerPoints []string     `json:"expected_answer_points,omitempty" yaml:"expected_answer_points,omitempty"`
	Difficulty           string       `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	TimeLimit            int          `json:"time_limit,omitempty" yaml:"time_limit,omitempty"`
	Weight               float64      `json:"weight,omitempty" yaml:"weight,omitempty"`
}

type InterviewTemplate struct {
	ID             uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID *uuid.UUID                            `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Name           string                                `gorm:"type:text;not null" json:"name"`
	Description    string                                `gorm:"type:text" json:"description,omitempty"`
	Category       TemplateCategory                      `gorm:"type:text;not null" json:"category"`
	JobRole        string                                `gorm:"type:text" json:"job_role,omitempty"`
	Industry       string                                `gorm:"type:text" json:"industry,omitempty"`
	Questions      datatypes.JSONSlice[TemplateQuestion] `json:"questions"`
	TotalDuration  int                                   `json:"total_duration"`
	PassingScore   int                                   `json:"passing_score"`
	IsGlobal       bool                                  `gorm:"index" json:"is_global"`
	IsActive       bool                                  `gorm:"index" json:"is_active"`
	CreatedBy      *uuid.UUID                            `gorm:"type:uuid" json:"created_by,omitempty"`
	UsageCount     int                                   `json:"usage_count"`
	CreatedAt      time.Time                             `json:"created_at"`
	UpdatedAt      time.Time                             `json:"updated_at"`
}

func (InterviewTemplate) TableName() string {
	return "interview_templates"
}

func (t *InterviewTemplate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.PassingScore == 0 {
		t.PassingScore = 70
	}
	return nil
}

// ToInterviewQuestions copies the template questions into fresh interview rows.
func (t *InterviewTemplate) ToInterviewQuestions() []InterviewQuestion {
	questions := make([]InterviewQuestion, 0, len(t.Questions))
	for i, q := range t.Questions {
		questions = append(questions, InterviewQuestion{
			Position:             i + 1,
			QuestionText:         q.Text,
			QuestionType:         q.Type,
			Options:              datatypes.JSONSlice[string](q.Options),
			ExpectedAnswerPoints: datatypes.JSONSlice[string](q.ExpectedAnswerPoints),
		})
	}
	return questions
}
