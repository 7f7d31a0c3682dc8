package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/models"
)

type MatchingConfigRepository interface {
	FindByOrganization(ctx context.Context, orgID uuid.UUID) (*models.MatchingConfig, error)
	FirstOrCreate(ctx context.Context, defaults *models.MatchingConfig) (*models.MatchingConfig, error)
	Save(ctx context.Context, cfg *models.MatchingConfig) error
}

type matchingConfigRepository struct {
	db *gorm.DB
}

func NewMatchingConfigRepository(db *gorm.DB) MatchingConfigRepository {
	return &matchingConfigRepository{db: db}
}

// FindByOrganization implements MatchingConfigRepository.
func (r *matchingConfigRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) (*models.MatchingConfig, error) {
	var cfg models.MatchingConfig
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).First(&cfg).Error; err != nil {
		return nil, findError(err, "matching config")
	}
	return &cfg, nil
}

// FirstOrCreate returns the organization's config, inserting defaults when absent.
func (r *matchingConfigRepository) FirstOrCreate(ctx context.Context, defaults *models.MatchingConfig) (*models.MatchingConfig, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	cfg := *defaults
	err := r.db.WithContext(ctx).
		Where(models.MatchingConfig{OrganizationID: defaults.OrganizationID}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return nil, writeError(err, "create", "matching config")
	}
	return &cfg, nil
}

// Save validates the config before writing it.
func (r *matchingConfigRepository) Save(ctx context.Context, cfg *models.MatchingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to save matching config: %w", err)
	}
	return nil
}
