package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

type OrganizationService interface {
	List(ctx context.Context, page models.PageQuery) ([]models.Organization, int64, error)
	Create(ctx context.Context, req models.CreateOrganizationRequest) (*models.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*models.OrganizationDetail, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateOrganizationRequest) (*models.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, caller *models.Caller, role models.Role, page models.PageQuery) ([]models.User, int64, error)
	GetSettings(ctx context.Context, caller *models.Caller) (*models.Organization, error)
	UpdateSettings(ctx context.Context, caller *models.Caller, settings models.OrganizationSettings) (*models.Organization, error)
}

type organizationService struct {
	orgs  repositories.OrganizationRepository
	users repositories.UserRepository
	log   *zap.Logger
}

func NewOrganizationService(orgs repositories.OrganizationRepository, users repositories.UserRepository, log *zap.Logger) OrganizationService {
	return &organizationService{orgs: orgs, users: users, log: log.Named("organizations")}
}

func validPlan(p models.SubscriptionPlan) bool {
	switch p {
	case models.PlanFreemium, models.PlanProfessional, models.PlanEnterprise, models.PlanCustom:
		return true
	}
	return false
}

func normalizeDomain(domain string) *string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil
	}
	return &domain
}

func (s *organizationService) checkDomain(ctx context.Context, domain *string, self uuid.UUID) error {
	if domain == nil {
		return nil
	}
	existing, err := s.orgs.FindByDomain(ctx, *domain)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return fmt.Errorf("%w: domain %s is taken", apperr.ErrDuplicate, *domain)
	}
	return nil
}

// List implements OrganizationService.
func (s *organizationService) List(ctx context.Context, page models.PageQuery) ([]models.Organization, int64, error) {
	return s.orgs.List(ctx, page)
}

// Create implements OrganizationService.
func (s *organizationService) Create(ctx context.Context, req models.CreateOrganizationRequest) (*models.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if req.Plan != "" && !validPlan(req.Plan) {
		return nil, apperr.Validation("plan", "invalid plan %q", req.Plan)
	}
	if req.MaxRecruiters < 0 || req.MaxJobPostings < 0 {
		return nil, apperr.Validation("subscription", "limits must not be negative")
	}

	domain := normalizeDomain(req.Domain)
	if err := s.checkDomain(ctx, domain, uuid.Nil); err != nil {
		return nil, err
	}

	settings := models.DefaultOrganizationSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	org := &models.Organization{
		Name:         name,
		Domain:       domain,
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactName:  strings.TrimSpace(req.ContactName),
		Settings:     datatypes.NewJSONType(settings),
		Subscription: models.Subscription{
			Plan:           req.Plan,
			MaxRecruiters:  req.MaxRecruiters,
			MaxJobPostings: req.MaxJobPostings,
		},
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	s.log.Info("🏢 Organization created", zap.String("organization_id", org.ID.String()), zap.String("name", org.Name))
	return org, nil
}

// Get implements OrganizationService.
func (s *organizationService) Get(ctx context.Context, id uuid.UUID) (*models.OrganizationDetail, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.orgs.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.OrganizationDetail{Organization: org, Stats: stats}, nil
}

// Update implements OrganizationService.
func (s *organizationService) Update(ctx context.Context, id uuid.UUID, req models.UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name", "must not be empty")
		}
		org.Name = name
	}
	if req.Domain != nil {
		domain := normalizeDomain(*req.Domain)
		if err := s.checkDomain(ctx, domain, org.ID); err != nil {
			return nil, err
		}
		org.Domain = domain
	}
	if req.ContactEmail != nil {
		org.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactName != nil {
		org.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.Plan != nil {
		if !validPlan(*req.Plan) {
			return nil, apperr.Validation("plan", "invalid plan %q", *req.Plan)
		}
		org.Subscription.Plan = *req.Plan
	}
	if req.Status != nil {
		switch *req.Status {
		case models.OrganizationActive, models.OrganizationInactive, models.OrganizationSuspended:
			org.Status = *req.Status
		default:
			return nil, apperr.Validation("status", "invalid organization status %q", *req.Status)
		}
	}
	if req.MaxRecruiters != nil {
		if *req.MaxRecruiters < 0 {
			return nil, apperr.Validation("max_recruiters", "must not be negative")
		}
		org.Subscription.MaxRecruiters = *req.MaxRecruiters
	}
	if req.MaxJobPostings != nil {
		if *req.MaxJobPostings < 0 {
			return nil, apperr.Validation("max_job_postings", "must not be negative")
		}
		org.Subscription.MaxJobPostings = *req.MaxJobPostings
	}

	if err := s.orgs.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete implements OrganizationService. Organizations that still have
// users cannot be removed.
func (s *organizationService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.users.Count(ctx, repositories.UserFilter{OrganizationID: &id})
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.InvalidState("organization still has %d users", count)
	}
	if err := s.orgs.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("🗑️  Organization deleted", zap.String("organization_id", id.String()))
	return nil
}

// ListUsers implements OrganizationService. Super admins see every user;
// organization admins only their own tenant.
func (s *organizationService) ListUsers(ctx context.Context, caller *models.Caller, role models.Role, page models.PageQuery) ([]models.User, int64, error) {
	if role != "" && !role.Valid() {
		return nil, 0, apperr.Validation("role", "invalid role %q", role)
	}
	filter := repositories.UserFilter{Role: role}
	if caller.Role != models.RoleSuperAdmin {
		orgID := caller.OrgID()
		filter.OrganizationID = &orgID
	}
	return s.users.List(ctx, filter, page)
}

// GetSettings implements OrganizationService.
func (s *organizationService) GetSettings(ctx context.Context, caller *models.Caller) (*models.Organization, error) {
	return s.orgs.FindByID(ctx, caller.OrgID())
}

// UpdateSettings implements OrganizationService.
func (s *organizationService) UpdateSettings(ctx context.Context, caller *models.Caller, settings models.OrganizationSettings) (*models.Organization, error) {
	if settings.MatchingThreshold < 0 || settings.MatchingThreshold > 100 {
		return nil, apperr.Validation("matching_threshold", "must be between 0 and 100")
	}

	org, err := s.orgs.FindByID(ctx, caller.OrgID())
	if err != nil {
		return nil, err
	}
	org.Settings = datatypes.NewJSONType(settings)
	if err := s.orgs.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}
