package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
)

type JobFilter struct {
	OrganizationID uuid.UUID
	RecruiterID    *uuid.UUID
	Status         models.JobStatus
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.Job, error)
	FindActive(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, filter JobFilter, page models.PageQuery) ([]models.Job, int64, error)
	ListActive(ctx context.Context, search string, employmentType models.EmploymentType, limit int) ([]models.Job, error)
	CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
	Save(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return writeError(err, "create", "job")
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&job).Error
	if err != nil {
		return nil, findError(err, "job")
	}
	return &job, nil
}

// FindActive implements JobRepository.
func (r *jobRepository) FindActive(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.JobActive).
		First(&job).Error
	if err != nil {
		return nil, findError(err, "job")
	}
	return &job, nil
}

// List implements JobRepository.
func (r *jobRepository) List(ctx context.Context, filter JobFilter, page models.PageQuery) ([]models.Job, int64, error) {
	var (
		jobs  []models.Job
		total int64
	)

	db := r.db.WithContext(ctx).Model(&models.Job{}).Where("organization_id = ?", filter.OrganizationID)
	if filter.RecruiterID != nil {
		db = db.Where("recruiter_id = ?", *filter.RecruiterID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	err := db.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, total, nil
}

// ListActive implements JobRepository.
func (r *jobRepository) ListActive(ctx context.Context, search string, employmentType models.EmploymentType, limit int) ([]models.Job, error) {
	db := r.db.WithContext(ctx).Where("status = ?", models.JobActive)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if employmentType != "" {
		db = db.Where("employment_type = ?", employmentType)
	}

	var jobs []models.Job
	if err := db.Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	return jobs, nil
}

// CountByOrganization implements JobRepository.
func (r *jobRepository) CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("organization_id = ? AND status <> ?", orgID, models.JobArchived).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return total, nil
}

// Save implements JobRepository.
func (r *jobRepository) Save(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return writeError(err, "update", "job")
	}
	return nil
}

// Delete implements JobRepository.
func (r *jobRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.Job{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("job")
	}
	return nil
}
