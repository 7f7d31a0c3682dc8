package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
)

type ResumeFilter struct {
	OrganizationID uuid.UUID
	UploadedBy     *uuid.UUID
	Status         models.ResumeStatus
}

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resume, error)
	FindForProcessing(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]models.Resume, error)
	List(ctx context.Context, filter ResumeFilter, page models.PageQuery) ([]models.Resume, int64, error)
	ListAnalyzed(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Resume, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status models.ResumeStatus) error
	UpdateProcessingStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus) error
	SaveAnalysis(ctx context.Context, id uuid.UUID, analysis models.ResumeAnalysis) error
	FindPending(ctx context.Context, limit int) ([]models.Resume, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return writeError(err, "create", "resume")
	}
	return nil
}

// FindByID implements ResumeRepository.
func (r *resumeRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&resume).Error
	if err != nil {
		return nil, findError(err, "resume")
	}
	return &resume, nil
}

// FindForProcessing loads a resume without tenant scope. It is reserved for
// the background analysis worker, which only receives ids it enqueued itself.
func (r *resumeRepository) FindForProcessing(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resume).Error; err != nil {
		return nil, findError(err, "resume")
	}
	return &resume, nil
}

// FindByIDs implements ResumeRepository.
func (r *resumeRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]models.Resume, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}

// List implements ResumeRepository.
func (r *resumeRepository) List(ctx context.Context, filter ResumeFilter, page models.PageQuery) ([]models.Resume, int64, error) {
	var (
		resumes []models.Resume
		total   int64
	)

	db := r.db.WithContext(ctx).Model(&models.Resume{}).Where("organization_id = ?", filter.OrganizationID)
	if filter.UploadedBy != nil {
		db = db.Where("uploaded_by = ?", *filter.UploadedBy)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resumes: %w", err)
	}

	err := db.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&resumes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resumes: %w", err)
	}

	return resumes, total, nil
}

// ListAnalyzed pages through completed resumes ordered by id for reindexing.
func (r *resumeRepository) ListAnalyzed(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Where("processing_status = ? AND id > ?", models.ProcessingCompleted, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyzed resumes: %w", err)
	}
	return resumes, nil
}

// UpdateStatus implements ResumeRepository.
func (r *resumeRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status models.ResumeStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("resume")
	}
	return nil
}

// UpdateProcessingStatus implements ResumeRepository.
func (r *resumeRepository) UpdateProcessingStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": status,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update processing status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("resume")
	}
	return nil
}

// SaveAnalysis stores the AI analysis and marks processing completed.
func (r *resumeRepository) SaveAnalysis(ctx context.Context, id uuid.UUID, analysis models.ResumeAnalysis) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_analysis":       datatypes.NewJSONType(analysis),
			"processing_status": models.ProcessingCompleted,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save resume analysis: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("resume")
	}
	return nil
}

// FindPending implements ResumeRepository.
func (r *resumeRepository) FindPending(ctx context.Context, limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Where("processing_status = ?", models.ProcessingPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending resumes: %w", err)
	}
	return resumes, nil
}

// Delete implements ResumeRepository.
func (r *resumeRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.Resume{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("resume")
	}
	return nil
}
