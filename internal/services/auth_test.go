package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/config"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/testutil"
)

func newTestAuth(t *testing.T) (*authService, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	svc := NewAuthService(
		repositories.NewUserRepository(testutil.NewDB(t)),
		NewPasswordHasher(bcrypt.MinCost),
		notifier,
		config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTL:      time.Hour,
			BcryptCost:    bcrypt.MinCost,
			ResetTokenTTL: time.Hour,
		},
		zap.NewNop(),
	)
	return svc.(*authService), notifier
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuth(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "  Ada@Example.com ",
		Username: "ada",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if reg.User.Role != models.RoleCandidate || reg.User.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", reg.User)
	}
	if reg.Token == "" {
		t.Fatalf("expected token on register")
	}

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "other@example.com", Username: "ada", Password: "correct-horse"})
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ada", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login by username error: %v", err)
	}
	if login.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}

	caller, err := svc.VerifyToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if caller.UserID != reg.User.ID || caller.Role != models.RoleCandidate {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterRequest{Email: "bo@example.com", Username: "bo", Password: "long-enough"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	tests := []struct {
		name string
		req  models.LoginRequest
		want error
	}{
		{"wrong password", models.LoginRequest{Email: "bo@example.com", Password: "nope-nope"}, apperr.ErrUnauthorized},
		{"unknown user", models.LoginRequest{Email: "ghost@example.com", Password: "long-enough"}, apperr.ErrUnauthorized},
	}
	for _, tt := range tests {
		if _, err := svc.Login(ctx, tt.req); !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}

	if _, err := svc.Login(ctx, models.LoginRequest{Email: "bo@example.com"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuth(t)
	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "cy@example.com", Username: "cy", Password: "short"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuth(t)
	if _, err := svc.VerifyToken(context.Background(), "not-a-jwt"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	svc, notifier := newTestAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterRequest{Email: "dee@example.com", Username: "dee", Password: "first-password"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("ForgotPassword for unknown email must succeed, got %v", err)
	}
	if notifier.resetToken != "" {
		t.Fatalf("unknown email must not send a reset token")
	}

	if err := svc.ForgotPassword(ctx, "dee@example.com"); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	if notifier.resetToken == "" {
		t.Fatalf("expected reset token to be sent")
	}

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "wrong", Password: "second-password"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for unknown token, got %v", err)
	}

	if err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: notifier.resetToken, Password: "second-password"}); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}
	if _, err := svc.Login(ctx, models.LoginRequest{Email: "dee@example.com", Password: "second-password"}); err != nil {
		t.Fatalf("Login with new password error: %v", err)
	}

	// tokens are single use
	err = svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: notifier.resetToken, Password: "third-password"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}
}

func TestPasswordResetExpires(t *testing.T) {
	t.Parallel()

	svc, notifier := newTestAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, models.RegisterRequest{Email: "eve@example.com", Username: "eve", Password: "first-password"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "eve@example.com"); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: notifier.resetToken, Password: "second-password"})
	if !errors.Is(err, apperr.ErrExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}
}
