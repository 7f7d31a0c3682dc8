package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
)

type InterviewFilter struct {
	OrganizationID uuid.UUID
	InvitedBy      *uuid.UUID
	Status         models.InterviewStatus
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.Interview, error)
	FindByToken(ctx context.Context, token string) (*models.Interview, error)
	List(ctx context.Context, filter InterviewFilter, page models.PageQuery) ([]models.Interview, int64, error)
	ListForExport(ctx context.Context, filter InterviewFilter) ([]models.Interview, error)
	Transition(ctx context.Context, id uuid.UUID, from []models.InterviewStatus, to models.InterviewStatus, fields map[string]interface{}) error
	SaveAnswer(ctx context.Context, interviewID uuid.UUID, question *models.InterviewQuestion) error
	UpdateCandidateDetails(ctx context.Context, id uuid.UUID, name, email string) error
	SaveFeedback(ctx context.Context, orgID, id uuid.UUID, feedback models.InterviewFeedback) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create implements InterviewRepository. Questions are inserted with the interview.
func (r *interviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		return writeError(err, "create", "interview")
	}
	return nil
}

// FindByID implements InterviewRepository.
func (r *interviewRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&interview).Error
	if err != nil {
		return nil, findError(err, "interview")
	}
	return &interview, nil
}

// FindByToken implements InterviewRepository.
func (r *interviewRepository) FindByToken(ctx context.Context, token string) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("access_token = ?", token).
		First(&interview).Error
	if err != nil {
		return nil, findError(err, "interview")
	}
	return &interview, nil
}

func (f InterviewFilter) apply(db *gorm.DB) *gorm.DB {
	db = db.Where("organization_id = ?", f.OrganizationID)
	if f.InvitedBy != nil {
		db = db.Where("invited_by = ?", *f.InvitedBy)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// List implements InterviewRepository.
func (r *interviewRepository) List(ctx context.Context, filter InterviewFilter, page models.PageQuery) ([]models.Interview, int64, error) {
	var (
		interviews []models.Interview
		total      int64
	)

	db := filter.apply(r.db.WithContext(ctx).Model(&models.Interview{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count interviews: %w", err)
	}

	err := db.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&interviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, total, nil
}

// ListForExport implements InterviewRepository.
func (r *interviewRepository) ListForExport(ctx context.Context, filter InterviewFilter) ([]models.Interview, error) {
	var interviews []models.Interview
	err := filter.apply(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// Transition moves an interview to a new status only while it is in one of
// the expected states. Losing that race yields apperr.ErrInvalidState.
func (r *interviewRepository) Transition(ctx context.Context, id uuid.UUID, from []models.InterviewStatus, to models.InterviewStatus, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update interview status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.InvalidState("interview is not %v", from)
	}
	return nil
}

// SaveAnswer stores an answer and its analysis while the interview is still in progress.
func (r *interviewRepository) SaveAnswer(ctx context.Context, interviewID uuid.UUID, question *models.InterviewQuestion) error {
	inProgress := r.db.Model(&models.Interview{}).
		Select("1").
		Where("id = ? AND status = ?", interviewID, models.InterviewInProgress)

	result := r.db.WithContext(ctx).Model(&models.InterviewQuestion{}).
		Where("id = ? AND interview_id = ?", question.ID, interviewID).
		Where("EXISTS (?)", inProgress).
		Updates(map[string]interface{}{
			"answer":      question.Answer,
			"ai_score":    question.AIScore,
			"ai_analysis": question.AIAnalysis,
			"time_spent":  question.TimeSpent,
			"answered_at": question.AnsweredAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save answer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.InvalidState("interview is not in progress")
	}
	return nil
}

// UpdateCandidateDetails implements InterviewRepository.
func (r *interviewRepository) UpdateCandidateDetails(ctx context.Context, id uuid.UUID, name, email string) error {
	result := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"candidate_name":  name,
			"candidate_email": email,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate details: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("interview")
	}
	return nil
}

// SaveFeedback implements InterviewRepository.
func (r *interviewRepository) SaveFeedback(ctx context.Context, orgID, id uuid.UUID, feedback models.InterviewFeedback) error {
	result := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(map[string]interface{}{
			"feedback_rating":       feedback.Rating,
			"feedback_comments":     feedback.Comments,
			"feedback_submitted_at": feedback.SubmittedAt,
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("interview")
	}
	return nil
}

// ExpireOverdue marks every invited interview past its expiry as expired.
func (r *interviewRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Interview{}).
		Where("status = ? AND expires_at < ?", models.InterviewInvited, now).
		Updates(map[string]interface{}{
			"status":     models.InterviewExpired,
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire interviews: %w", result.Error)
	}
	return result.RowsAffected, nil
}
