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

type JobMatchRepository interface {
	Create(ctx context.Context, match *models.JobMatch) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.JobMatch, error)
	ListByJob(ctx context.Context, orgID, jobID uuid.UUID) ([]models.JobMatch, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, jobIDs []uuid.UUID) ([]models.JobMatch, error)
	UpdateReview(ctx context.Context, orgID, id uuid.UUID, review models.RecruiterReview) (*models.JobMatch, error)
	MarkInterviewScheduled(ctx context.Context, id, interviewID uuid.UUID) error
	DeleteByCandidate(ctx context.Context, orgID, candidateID uuid.UUID) error
}

type jobMatchRepository struct {
	db *gorm.DB
}

func NewJobMatchRepository(db *gorm.DB) JobMatchRepository {
	return &jobMatchRepository{db: db}
}

// Create implements JobMatchRepository.
func (r *jobMatchRepository) Create(ctx context.Context, match *models.JobMatch) error {
	if err := r.db.WithContext(ctx).Omit("Candidate", "Job").Create(match).Error; err != nil {
		return writeError(err, "create", "job match")
	}
	return nil
}

// FindByID implements JobMatchRepository.
func (r *jobMatchRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.JobMatch, error) {
	var match models.JobMatch
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&match).Error
	if err != nil {
		return nil, findError(err, "match")
	}
	return &match, nil
}

// ListByJob implements JobMatchRepository. Highest scores first.
func (r *jobMatchRepository) ListByJob(ctx context.Context, orgID, jobID uuid.UUID) ([]models.JobMatch, error) {
	var matches []models.JobMatch
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Where("job_id = ? AND organization_id = ?", jobID, orgID).
		Order("match_score DESC").
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// ListByOrganization returns matches for export, optionally narrowed to a set of jobs.
func (r *jobMatchRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, jobIDs []uuid.UUID) ([]models.JobMatch, error) {
	db := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Where("organization_id = ?", orgID)
	if jobIDs != nil {
		if len(jobIDs) == 0 {
			return nil, nil
		}
		db = db.Where("job_id IN ?", jobIDs)
	}

	var matches []models.JobMatch
	if err := db.Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// UpdateReview implements JobMatchRepository.
func (r *jobMatchRepository) UpdateReview(ctx context.Context, orgID, id uuid.UUID, review models.RecruiterReview) (*models.JobMatch, error) {
	result := r.db.WithContext(ctx).Model(&models.JobMatch{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(map[string]interface{}{
			"review_status":      review.Status,
			"review_notes":       review.Notes,
			"review_reviewed_by": review.ReviewedBy,
			"review_reviewed_at": review.ReviewedAt,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("match")
	}

	return r.FindByID(ctx, orgID, id)
}

// MarkInterviewScheduled implements JobMatchRepository.
func (r *jobMatchRepository) MarkInterviewScheduled(ctx context.Context, id, interviewID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.JobMatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"interview_scheduled": true,
			"interview_id":        interviewID,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark interview scheduled: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("match")
	}
	return nil
}

// DeleteByCandidate implements JobMatchRepository.
func (r *jobMatchRepository) DeleteByCandidate(ctx context.Context, orgID, candidateID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND candidate_id = ?", orgID, candidateID).
		Delete(&models.JobMatch{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}
