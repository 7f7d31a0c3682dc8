package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/testutil"
)

func TestSeedGlobalIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := NewTemplateService(repositories.NewInterviewTemplateRepository(testutil.NewDB(t)), zap.NewNop())
	ctx := context.Background()

	created, err := svc.SeedGlobal(ctx)
	if err != nil {
		t.Fatalf("SeedGlobal error: %v", err)
	}
	if created == 0 {
		t.Fatalf("expected seed templates to be created")
	}

	again, err := svc.SeedGlobal(ctx)
	if err != nil {
		t.Fatalf("second SeedGlobal error: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected no templates on second run, got %d", again)
	}

	list, err := svc.List(ctx, recruiterCaller(uuid.New(), uuid.New()), "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != created {
		t.Fatalf("expected %d global templates, got %d", created, len(list))
	}
}

func TestTemplateOwnershipAndValidation(t *testing.T) {
	t.Parallel()

	svc := NewTemplateService(repositories.NewInterviewTemplateRepository(testutil.NewDB(t)), zap.NewNop())
	ctx := context.Background()
	orgID := uuid.New()
	owner := recruiterCaller(orgID, uuid.New())

	_, err := svc.Create(ctx, owner, models.TemplateRequest{Name: "Empty"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error without questions, got %v", err)
	}

	tmpl, err := svc.Create(ctx, owner, models.TemplateRequest{
		Name:      "Screening",
		Questions: []models.TemplateQuestion{{Text: "Why this role?"}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if tmpl.IsGlobal || tmpl.OrganizationID == nil || *tmpl.OrganizationID != orgID {
		t.Fatalf("expected organization template, got %+v", tmpl)
	}
	if tmpl.Category != models.CategoryGeneral || tmpl.Questions[0].Type != models.QuestionOpenEnded {
		t.Fatalf("expected defaults to be applied, got %+v", tmpl)
	}

	outsider := recruiterCaller(uuid.New(), uuid.New())
	if err := svc.Deactivate(ctx, outsider, tmpl.ID); err == nil {
		t.Fatalf("expected another organization to be refused")
	}

	if err := svc.Deactivate(ctx, owner, tmpl.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	list, err := svc.List(ctx, owner, "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deactivated templates must not be listed, got %d", len(list))
	}
}
