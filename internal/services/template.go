package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

//go:embed seed/templates.yaml
var globalTemplatesYAML []byte

type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	Name          string                    `yaml:"name"`
	Description   string                    `yaml:"description"`
	Category      models.TemplateCategory   `yaml:"category"`
	JobRole       string                    `yaml:"job_role"`
	Industry      string                    `yaml:"industry"`
	TotalDuration int                       `yaml:"total_duration"`
	PassingScore  int                       `yaml:"passing_score"`
	Questions     []models.TemplateQuestion `yaml:"questions"`
}

type TemplateService interface {
	List(ctx context.Context, caller *models.Caller, category models.TemplateCategory) ([]models.InterviewTemplate, error)
	Create(ctx context.Context, caller *models.Caller, req models.TemplateRequest) (*models.InterviewTemplate, error)
	Update(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.TemplateRequest) (*models.InterviewTemplate, error)
	Deactivate(ctx context.Context, caller *models.Caller, id uuid.UUID) error
	SeedGlobal(ctx context.Context) (int, error)
}

type templateService struct {
	repo repositories.InterviewTemplateRepository
	log  *zap.Logger
}

func NewTemplateService(repo repositories.InterviewTemplateRepository, log *zap.Logger) TemplateService {
	return &templateService{repo: repo, log: log.Named("templates")}
}

func normalizeTemplateRequest(req *models.TemplateRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("name", "is required")
	}
	if req.Category == "" {
		req.Category = models.CategoryGeneral
	}
	if !req.Category.Valid() {
		return apperr.Validation("category", "invalid category %q", req.Category)
	}
	if len(req.Questions) == 0 {
		return apperr.Validation("questions", "at least one question is required")
	}
	if req.PassingScore < 0 || req.PassingScore > 100 {
		return apperr.Validation("passing_score", "must be between 0 and 100")
	}

	for i := range req.Questions {
		q := &req.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return apperr.Validation(fmt.Sprintf("questions[%d].text", i), "is required")
		}
		if q.Type == "" {
			q.Type = models.QuestionOpenEnded
		}
		if !q.Type.Valid() {
			return apperr.Validation(fmt.Sprintf("questions[%d].type", i), "invalid question type %q", q.Type)
		}
		if q.Type == models.QuestionMultipleChoice && len(q.Options) < 2 {
			return apperr.Validation(fmt.Sprintf("questions[%d].options", i), "multiple choice needs at least two options")
		}
	}
	return nil
}

func applyTemplateRequest(tmpl *models.InterviewTemplate, req models.TemplateRequest) {
	tmpl.Name = req.Name
	tmpl.Description = strings.TrimSpace(req.Description)
	tmpl.Category = req.Category
	tmpl.JobRole = strings.TrimSpace(req.JobRole)
	tmpl.Industry = strings.TrimSpace(req.Industry)
	tmpl.Questions = datatypes.JSONSlice[models.TemplateQuestion](req.Questions)
	tmpl.TotalDuration = req.TotalDuration
	tmpl.PassingScore = req.PassingScore
}

// List implements TemplateService. The organization's own templates come
// before the global ones.
func (s *templateService) List(ctx context.Context, caller *models.Caller, category models.TemplateCategory) ([]models.InterviewTemplate, error) {
	if category != "" && !category.Valid() {
		return nil, apperr.Validation("category", "invalid category %q", category)
	}
	return s.repo.List(ctx, caller.OrgID(), category)
}

// Create implements TemplateService. Templates created by a super admin are global.
func (s *templateService) Create(ctx context.Context, caller *models.Caller, req models.TemplateRequest) (*models.InterviewTemplate, error) {
	if err := normalizeTemplateRequest(&req); err != nil {
		return nil, err
	}

	creator := caller.UserID
	tmpl := &models.InterviewTemplate{
		IsActive:  true,
		CreatedBy: &creator,
	}
	if caller.Role == models.RoleSuperAdmin {
		tmpl.IsGlobal = true
	} else {
		orgID := caller.OrgID()
		tmpl.OrganizationID = &orgID
	}
	applyTemplateRequest(tmpl, req)

	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, err
	}

	s.log.Info("📝 Interview template created", zap.String("template_id", tmpl.ID.String()), zap.Bool("global", tmpl.IsGlobal))
	return tmpl, nil
}

// findEditable returns a template the caller may change: their own
// organization's, or a global one for super admins.
func (s *templateService) findEditable(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.InterviewTemplate, error) {
	if caller.Role == models.RoleSuperAdmin {
		tmpl, err := s.repo.FindAccessible(ctx, uuid.Nil, id)
		if err != nil {
			return nil, err
		}
		if !tmpl.IsGlobal {
			return nil, apperr.NotFound("interview template")
		}
		return tmpl, nil
	}
	return s.repo.FindOwned(ctx, caller.OrgID(), id)
}

// Update implements TemplateService.
func (s *templateService) Update(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.TemplateRequest) (*models.InterviewTemplate, error) {
	if err := normalizeTemplateRequest(&req); err != nil {
		return nil, err
	}
	tmpl, err := s.findEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	applyTemplateRequest(tmpl, req)
	if err := s.repo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Deactivate implements TemplateService. Interviews already created keep
// their copied questions.
func (s *templateService) Deactivate(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	tmpl, err := s.findEditable(ctx, caller, id)
	if err != nil {
		return err
	}
	tmpl.IsActive = false
	return s.repo.Save(ctx, tmpl)
}

// SeedGlobal implements TemplateService. Templates are matched by name, so
// running it again only adds what is missing.
func (s *templateService) SeedGlobal(ctx context.Context) (int, error) {
	var seed seedFile
	if err := yaml.Unmarshal(globalTemplatesYAML, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse template seed: %w", err)
	}

	created := 0
	for _, st := range seed.Templates {
		_, err := s.repo.FindGlobalByName(ctx, st.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return created, err
		}

		req := models.TemplateRequest{
			Name:          st.Name,
			Description:   st.Description,
			Category:      st.Category,
			JobRole:       st.JobRole,
			Industry:      st.Industry,
			Questions:     st.Questions,
			TotalDuration: st.TotalDuration,
			PassingScore:  st.PassingScore,
		}
		if err := normalizeTemplateRequest(&req); err != nil {
			return created, fmt.Errorf("invalid seed template %q: %w", st.Name, err)
		}

		tmpl := &models.InterviewTemplate{IsGlobal: true, IsActive: true}
		applyTemplateRequest(tmpl, req)
		if err := s.repo.Create(ctx, tmpl); err != nil {
			return created, err
		}
		created++
	}

	s.log.Info("🌱 Global templates seeded", zap.Int("created", created), zap.Int("total", len(seed.Templates)))
	return created, nil
}
