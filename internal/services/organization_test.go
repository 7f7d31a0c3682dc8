package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/testutil"
)

func TestOrganizationLifecycle(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	orgRepo := repositories.NewOrganizationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	orgs := NewOrganizationService(orgRepo, userRepo, zap.NewNop())
	users := NewUserService(userRepo, orgRepo, NewPasswordHasher(bcrypt.MinCost), zap.NewNop())
	ctx := context.Background()

	org, err := orgs.Create(ctx, models.CreateOrganizationRequest{Name: "Acme", Domain: "Acme.io", MaxRecruiters: 1})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if org.Subscription.Plan != models.PlanFreemium || org.Subscription.MaxJobPostings != 5 {
		t.Fatalf("expected subscription defaults, got %+v", org.Subscription)
	}

	if _, err := orgs.Create(ctx, models.CreateOrganizationRequest{Name: "Copycat", Domain: "acme.io"}); !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected duplicate domain error, got %v", err)
	}

	admin := &models.Caller{UserID: uuid.New(), Role: models.RoleCustomerAdmin, OrganizationID: &org.ID}
	recruiter, err := users.CreateRecruiter(ctx, admin, models.CreateUserRequest{
		Email: "rita@acme.io", Username: "rita", Password: "recruit-pass",
	})
	if err != nil {
		t.Fatalf("CreateRecruiter error: %v", err)
	}
	if recruiter.Role != models.RoleRecruiter || *recruiter.OrganizationID != org.ID {
		t.Fatalf("unexpected recruiter %+v", recruiter)
	}

	_, err = users.CreateRecruiter(ctx, admin, models.CreateUserRequest{
		Email: "sam@acme.io", Username: "sam", Password: "recruit-pass",
	})
	if !errors.Is(err, apperr.ErrLimitReached) {
		t.Fatalf("expected recruiter limit error, got %v", err)
	}

	if err := orgs.Delete(ctx, org.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected delete to be refused while users exist, got %v", err)
	}

	outsider := &models.Caller{UserID: uuid.New(), Role: models.RoleCustomerAdmin, OrganizationID: &uuid.UUID{}}
	if err := users.DeleteRecruiter(ctx, outsider, recruiter.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected other tenants to get not found, got %v", err)
	}

	if err := users.DeleteRecruiter(ctx, admin, recruiter.ID); err != nil {
		t.Fatalf("DeleteRecruiter error: %v", err)
	}
	if err := orgs.Delete(ctx, org.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestUpdateSettingsValidatesThreshold(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	orgs := NewOrganizationService(repositories.NewOrganizationRepository(db), repositories.NewUserRepository(db), zap.NewNop())
	ctx := context.Background()

	org, err := orgs.Create(ctx, models.CreateOrganizationRequest{Name: "Globex"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	admin := &models.Caller{UserID: uuid.New(), Role: models.RoleCustomerAdmin, OrganizationID: &org.ID}

	settings := models.DefaultOrganizationSettings()
	settings.MatchingThreshold = 120
	if _, err := orgs.UpdateSettings(ctx, admin, settings); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	settings.MatchingThreshold = 75
	updated, err := orgs.UpdateSettings(ctx, admin, settings)
	if err != nil {
		t.Fatalf("UpdateSettings error: %v", err)
	}
	if updated.Settings.Data().MatchingThreshold != 75 {
		t.Fatalf("expected threshold 75, got %v", updated.Settings.Data().MatchingThreshold)
	}
}
