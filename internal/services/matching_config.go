package services

import (
	"context"

	"github.com/google/uuid"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

type MatchingConfigService interface {
	GetOrCreate(ctx context.Context, orgID uuid.UUID) (*models.MatchingConfig, error)
	Update(ctx context.Context, orgID uuid.UUID, req models.UpdateMatchingConfigRequest) (*models.MatchingConfig, error)
}

type matchingConfigService struct {
	repo repositories.MatchingConfigRepository
}

func NewMatchingConfigService(repo repositories.MatchingConfigRepository) MatchingConfigService {
	return &matchingConfigService{repo: repo}
}

// GetOrCreate implements MatchingConfigService. The first read for an
// organization persists the defaults.
func (s *matchingConfigService) GetOrCreate(ctx context.Context, orgID uuid.UUID) (*models.MatchingConfig, error) {
	return s.repo.FirstOrCreate(ctx, models.DefaultMatchingConfig(orgID))
}

// Update implements MatchingConfigService.
func (s *matchingConfigService) Update(ctx context.Context, orgID uuid.UUID, req models.UpdateMatchingConfigRequest) (*models.MatchingConfig, error) {
	cfg, err := s.GetOrCreate(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Thresholds != nil {
		cfg.Thresholds = *req.Thresholds
	}
	if req.Weights != nil {
		cfg.Weights = *req.Weights
	}
	if req.AutoMatchingEnabled != nil {
		cfg.AutoMatchingEnabled = *req.AutoMatchingEnabled
	}
	if req.AIEnabled != nil {
		cfg.AIEnabled = *req.AIEnabled
	}
	if req.NotifyOnStrongMatch != nil {
		cfg.NotifyOnStrongMatch = *req.NotifyOnStrongMatch
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
