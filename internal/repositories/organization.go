package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	FindByDomain(ctx context.Context, domain string) (*models.Organization, error)
	List(ctx context.Context, page models.PageQuery) ([]models.Organization, int64, error)
	Save(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, id uuid.UUID) (models.OrganizationStats, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create implements OrganizationRepository.
func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return writeError(err, "create", "organization")
	}
	return nil
}

// FindByID implements OrganizationRepository.
func (r *organizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, findError(err, "organization")
	}
	return &org, nil
}

// FindByDomain implements OrganizationRepository.
func (r *organizationRepository) FindByDomain(ctx context.Context, domain string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&org).Error; err != nil {
		return nil, findError(err, "organization")
	}
	return &org, nil
}

// List implements OrganizationRepository.
func (r *organizationRepository) List(ctx context.Context, page models.PageQuery) ([]models.Organization, int64, error) {
	var (
		orgs  []models.Organization
		total int64
	)

	db := r.db.WithContext(ctx).Model(&models.Organization{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	err := db.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&orgs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}

	return orgs, total, nil
}

// Save implements OrganizationRepository.
func (r *organizationRepository) Save(ctx context.Context, org *models.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return writeError(err, "update", "organization")
	}
	return nil
}

// Delete implements OrganizationRepository.
func (r *organizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Organization{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete organization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("organization")
	}
	return nil
}

// Stats implements OrganizationRepository.
func (r *organizationRepository) Stats(ctx context.Context, id uuid.UUID) (models.OrganizationStats, error) {
	var stats models.OrganizationStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Where("organization_id = ?", id).Count(&stats.TotalUsers).Error; err != nil {
		return stats, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.User{}).
		Where("organization_id = ? AND role = ?", id, models.RoleRecruiter).
		Count(&stats.Recruiters).Error; err != nil {
		return stats, fmt.Errorf("failed to count recruiters: %w", err)
	}
	if err := db.Model(&models.Job{}).Where("organization_id = ?", id).Count(&stats.Jobs).Error; err != nil {
		return stats, fmt.Errorf("failed to count jobs: %w", err)
	}

	return stats, nil
}
