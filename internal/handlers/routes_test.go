package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/services"
	"hireflow/ats-platform/internal/testutil"
)

type stubVerifier map[string]*models.Caller

func (v stubVerifier) VerifyToken(ctx context.Context, token string) (*models.Caller, error) {
	caller, ok := v[token]
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	if token == "suspended" {
		return nil, apperr.ErrForbidden
	}
	return caller, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	orgID := uuid.New()
	verifier := stubVerifier{
		"recruiter": {UserID: uuid.New(), Role: models.RoleRecruiter, OrganizationID: &orgID},
		"candidate": {UserID: uuid.New(), Role: models.RoleCandidate},
		"orphan":    {UserID: uuid.New(), Role: models.RoleRecruiter},
		"suspended": {UserID: uuid.New(), Role: models.RoleRecruiter, OrganizationID: &orgID},
	}

	templates := services.NewTemplateService(repositories.NewInterviewTemplateRepository(testutil.NewDB(t)), zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.NewNop())})
	RegisterRoutes(app, Handlers{
		Auth:          NewAuthHandler(nil),
		Admin:         NewAdminHandler(nil, nil, nil),
		Jobs:          NewJobHandler(nil, nil),
		Resumes:       NewResumeHandler(nil),
		Matches:       NewMatchHandler(nil),
		Interviews:    NewInterviewHandler(nil),
		Templates:     NewTemplateHandler(templates),
		Notifications: NewNotificationHandler(nil),
		Analytics:     NewAnalyticsHandler(nil),
	}, RouteOptions{Verifier: verifier, DisableRate: true})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	var payload map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func TestProtectedRoutesRejectUnauthorizedCallers(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/api/v1/jobs", "", fiber.StatusUnauthorized},
		{"unknown token", "/api/v1/jobs", "forged", fiber.StatusUnauthorized},
		{"inactive account", "/api/v1/jobs", "suspended", fiber.StatusForbidden},
		{"wrong role", "/api/v1/jobs", "candidate", fiber.StatusForbidden},
		{"no organization", "/api/v1/jobs", "orphan", fiber.StatusForbidden},
		{"super admin only", "/api/v1/super-admin/organizations", "recruiter", fiber.StatusForbidden},
		{"candidate on templates", "/api/v1/templates", "candidate", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		status, body := doRequest(t, app, fiber.MethodGet, tt.path, tt.token, "")
		if status != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, status)
		}
		if body["error"] == nil {
			t.Fatalf("%s: expected error body, got %v", tt.name, body)
		}
	}
}

func TestTemplateRoutesEndToEnd(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	status, body := doRequest(t, app, fiber.MethodPost, "/api/v1/templates", "recruiter", `{"name":"Screening"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for template without questions, got %d (%v)", status, body)
	}

	status, body = doRequest(t, app, fiber.MethodPost, "/api/v1/templates", "recruiter",
		`{"name":"Screening","questions":[{"text":"Why this role?"}]}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	id, _ := body["id"].(string)

	status, _ = doRequest(t, app, fiber.MethodDelete, "/api/v1/templates/not-a-uuid", "recruiter", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", status)
	}

	status, _ = doRequest(t, app, fiber.MethodDelete, "/api/v1/templates/"+uuid.NewString(), "recruiter", "")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown template, got %d", status)
	}

	status, body = doRequest(t, app, fiber.MethodDelete, "/api/v1/templates/"+id, "recruiter", "")
	if status != fiber.StatusOK || body["message"] != "Template deactivated" {
		t.Fatalf("expected deactivation, got %d (%v)", status, body)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("name", "is required"), fiber.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", apperr.ErrLimitReached), fiber.StatusBadRequest},
		{apperr.ErrUnauthorized, fiber.StatusUnauthorized},
		{apperr.ErrForbidden, fiber.StatusForbidden},
		{apperr.NotFound("job"), fiber.StatusNotFound},
		{apperr.InvalidState("interview is %s", "completed"), fiber.StatusConflict},
		{apperr.ErrDuplicate, fiber.StatusConflict},
		{fmt.Errorf("interview %w", apperr.ErrExpired), fiber.StatusGone},
		{&services.AnalyzerError{Op: "match", Err: errors.New("timeout")}, fiber.StatusBadGateway},
		{fiber.NewError(fiber.StatusTooManyRequests, "slow down"), fiber.StatusTooManyRequests},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorHandlerMasksInternalErrors(t *testing.T) {
	t.Parallel()

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	status, body := doRequest(t, app, fiber.MethodGet, "/boom", "", "")
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body["error"] != "Internal server error" {
		t.Fatalf("expected masked message, got %v", body["error"])
	}
}
