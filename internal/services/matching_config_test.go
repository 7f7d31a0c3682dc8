package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/testutil"
)

func TestMatchingConfigUpdate(t *testing.T) {
	t.Parallel()

	svc := NewMatchingConfigService(repositories.NewMatchingConfigRepository(testutil.NewDB(t)))
	ctx := context.Background()
	orgID := uuid.New()

	tests := []struct {
		name    string
		req     models.UpdateMatchingConfigRequest
		wantErr bool
	}{
		{
			name: "weights not summing to one",
			req: models.UpdateMatchingConfigRequest{
				Weights: &models.MatchWeights{SkillMatch: 0.5, ExperienceMatch: 0.2, EducationMatch: 0.1, CultureFit: 0.1},
			},
			wantErr: true,
		},
		{
			name: "negative weight",
			req: models.UpdateMatchingConfigRequest{
				Weights: &models.MatchWeights{SkillMatch: 1.2, ExperienceMatch: -0.2},
			},
			wantErr: true,
		},
		{
			name: "threshold above 100",
			req: models.UpdateMatchingConfigRequest{
				Thresholds: &models.MatchThresholds{MinimumMatchScore: 60, StrongMatchScore: 101, AutoRejectScore: 30},
			},
			wantErr: true,
		},
		{
			name: "sum within tolerance",
			req: models.UpdateMatchingConfigRequest{
				Weights: &models.MatchWeights{SkillMatch: 0.5, ExperienceMatch: 0.3, EducationMatch: 0.1, CultureFit: 0.105},
			},
		},
	}

	for _, tt := range tests {
		_, err := svc.Update(ctx, orgID, tt.req)
		if tt.wantErr && !apperr.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
	}
}

func TestMatchingConfigPartialUpdateKeepsOtherFields(t *testing.T) {
	t.Parallel()

	svc := NewMatchingConfigService(repositories.NewMatchingConfigRepository(testutil.NewDB(t)))
	ctx := context.Background()
	orgID := uuid.New()

	off := false
	if _, err := svc.Update(ctx, orgID, models.UpdateMatchingConfigRequest{NotifyOnStrongMatch: &off}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	cfg, err := svc.GetOrCreate(ctx, orgID)
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if cfg.NotifyOnStrongMatch {
		t.Fatalf("expected notify flag to be off")
	}
	if !cfg.AIEnabled || cfg.Thresholds.StrongMatchScore != 80 || cfg.Weights.SkillMatch != 0.4 {
		t.Fatalf("expected untouched defaults, got %+v", cfg)
	}
}
