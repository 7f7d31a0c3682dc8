package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/config"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

const resetTokenBytes = 32

// Claims is the JWT payload issued at login.
type Claims struct {
	Role           models.Role `json:"role"`
	OrganizationID string      `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context, caller *models.Caller, userID uuid.UUID) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	VerifyToken(ctx context.Context, token string) (*models.Caller, error)
	CreateSuperAdmin(ctx context.Context, email, username, password string) (*models.User, error)
}

type authService struct {
	users    repositories.UserRepository
	hasher   PasswordHasher
	notifier NotificationService
	cfg      config.AuthConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(users repositories.UserRepository, hasher PasswordHasher, notifier NotificationService, cfg config.AuthConfig, log *zap.Logger) AuthService {
	return &authService{
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		cfg:      cfg,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	if user.OrganizationID != nil {
		claims.OrganizationID = user.OrganizationID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Register implements AuthService. Self-service signup only creates candidates.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
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

	user := &models.User{
		Email:              email,
		Username:           username,
		PasswordHash:       hash,
		Role:               models.RoleCandidate,
		EmailNotifications: true,
		Profile: models.UserProfile{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ User registered", zap.String("user_id", user.ID.String()))
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login implements AuthService. Unknown logins and wrong passwords are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperr.Validation("", "email and password are required")
	}

	user, err := s.users.FindByLogin(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if user.Status != models.UserActive {
		return nil, fmt.Errorf("%w: account is %s", apperr.ErrForbidden, user.Status)
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.Save(ctx, user); err != nil {
		s.log.Warn("⚠️  Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Profile implements AuthService. Users read their own profile; admins read
// profiles inside their scope.
func (s *authService) Profile(ctx context.Context, caller *models.Caller, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case caller.UserID == user.ID, caller.Role == models.RoleSuperAdmin:
		return user, nil
	case caller.Role == models.RoleCustomerAdmin && user.OrganizationID != nil && *user.OrganizationID == caller.OrgID():
		return user, nil
	}
	return nil, apperr.ErrForbidden
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword implements AuthService. Unknown addresses succeed silently.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperr.Validation("email", "is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	hash := hashResetToken(token)
	expires := s.now().Add(s.cfg.ResetTokenTTL)
	user.PasswordResetToken = &hash
	user.PasswordResetExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	return s.notifier.PasswordReset(ctx, user, token, s.cfg.ResetTokenTTL)
}

// ResetPassword implements AuthService.
func (s *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return apperr.Validation("token", "is required")
	}
	if err := ValidatePassword(req.Password); err != nil {
		return err
	}

	user, err := s.users.FindByResetToken(ctx, hashResetToken(req.Token))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("token", "invalid reset token")
		}
		return err
	}
	if user.PasswordResetExpires == nil || s.now().After(*user.PasswordResetExpires) {
		return fmt.Errorf("reset token %w", apperr.ErrExpired)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	user.MustChangePassword = false
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("🔑 Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// VerifyToken implements AuthService. The user row is reloaded so that
// deactivated accounts lose access before their token expires.
func (s *authService) VerifyToken(ctx context.Context, token string) (*models.Caller, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", apperr.ErrUnauthorized)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if user.Status != models.UserActive {
		return nil, fmt.Errorf("%w: account is %s", apperr.ErrForbidden, user.Status)
	}

	return &models.Caller{
		UserID:         user.ID,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}, nil
}

// CreateSuperAdmin implements AuthService.
func (s *authService) CreateSuperAdmin(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(username) == "" {
		return nil, apperr.Validation("", "email and username are required")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email or username already registered", apperr.ErrDuplicate)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              email,
		Username:           strings.TrimSpace(username),
		PasswordHash:       hash,
		Role:               models.RoleSuperAdmin,
		EmailNotifications: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("✅ Super admin created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return user, nil
}
