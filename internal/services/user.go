package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

// UserService manages the recruiters of an organization on behalf of its admin.
type UserService interface {
	ListRecruiters(ctx context.Context, caller *models.Caller, page models.PageQuery) ([]models.User, int64, error)
	CreateRecruiter(ctx context.Context, caller *models.Caller, req models.CreateUserRequest) (*models.User, error)
	UpdateRecruiter(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error)
	DeleteRecruiter(ctx context.Context, caller *models.Caller, id uuid.UUID) error
}

type userService struct {
	users  repositories.UserRepository
	orgs   repositories.OrganizationRepository
	hasher PasswordHasher
	log    *zap.Logger
}

func NewUserService(users repositories.UserRepository, orgs repositories.OrganizationRepository, hasher PasswordHasher, log *zap.Logger) UserService {
	return &userService{users: users, orgs: orgs, hasher: hasher, log: log.Named("users")}
}

func (s *userService) recruiterFilter(caller *models.Caller) repositories.UserFilter {
	orgID := caller.OrgID()
	return repositories.UserFilter{OrganizationID: &orgID, Role: models.RoleRecruiter}
}

// findRecruiter loads a recruiter of the caller's organization. Users of
// other tenants or roles read as not found.
func (s *userService) findRecruiter(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleRecruiter || user.OrganizationID == nil || *user.OrganizationID != caller.OrgID() {
		return nil, apperr.NotFound("recruiter")
	}
	return user, nil
}

// ListRecruiters implements UserService.
func (s *userService) ListRecruiters(ctx context.Context, caller *models.Caller, page models.PageQuery) ([]models.User, int64, error) {
	return s.users.List(ctx, s.recruiterFilter(caller), page)
}

// CreateRecruiter implements UserService.
func (s *userService) CreateRecruiter(ctx context.Context, caller *models.Caller, req models.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" {
		return nil, apperr.Validation("email", "is required")
	}
	if username == "" {
		return nil, apperr.Validation("username", "is required")
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, caller.OrgID())
	if err != nil {
		return nil, err
	}
	count, err := s.users.Count(ctx, s.recruiterFilter(caller))
	if err != nil {
		return nil, err
	}
	if count >= int64(org.Subscription.MaxRecruiters) {
		return nil, fmt.Errorf("%w: organization allows %d recruiters", apperr.ErrLimitReached, org.Subscription.MaxRecruiters)
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email or username already registered", apperr.ErrDuplicate)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	orgID := org.ID
	user := &models.User{
		Email:              email,
		Username:           username,
		PasswordHash:       hash,
		Role:               models.RoleRecruiter,
		OrganizationID:     &orgID,
		EmailNotifications: true,
		Profile: models.UserProfile{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     strings.TrimSpace(req.Phone),
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("👤 Recruiter created", zap.String("user_id", user.ID.String()), zap.String("organization_id", orgID.String()))
	return user, nil
}

// UpdateRecruiter implements UserService.
func (s *userService) UpdateRecruiter(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.findRecruiter(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.Profile.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.Profile.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Profile.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		switch *req.Status {
		case models.UserActive, models.UserInactive, models.UserSuspended, models.UserPending:
			user.Status = *req.Status
		default:
			return nil, apperr.Validation("status", "invalid user status %q", *req.Status)
		}
	}
	if req.Password != nil {
		if err := ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteRecruiter implements UserService.
func (s *userService) DeleteRecruiter(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	if id == caller.UserID {
		return apperr.Validation("id", "cannot delete your own account")
	}
	user, err := s.findRecruiter(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}
