package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
)

const callerKey = "caller"

// TokenVerifier resolves a bearer token to the authenticated caller.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.Caller, error)
}

func tokenFrom(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.Get("auth-token"))
}

// Authenticate accepts "Authorization: Bearer <jwt>" or the legacy
// "auth-token" header and stores the caller in the request locals.
func Authenticate(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Access denied. No token provided")
		}

		caller, err := verifier.VerifyToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, apperr.ErrForbidden) {
				return fiber.NewError(fiber.StatusForbidden, "Account is not active")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		caller := Caller(c)
		if caller == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}
		if !allowed[caller.Role] {
			return fiber.NewError(fiber.StatusForbidden, "Access denied. Insufficient permissions")
		}
		return c.Next()
	}
}

// RequireOrganization rejects callers that do not belong to a tenant.
func RequireOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := Caller(c)
		if caller == nil || caller.OrganizationID == nil {
			return fiber.NewError(fiber.StatusForbidden, "Organization membership required")
		}
		return c.Next()
	}
}

// Caller returns the authenticated caller, or nil on public routes.
func Caller(c *fiber.Ctx) *models.Caller {
	caller, _ := c.Locals(callerKey).(*models.Caller)
	return caller
}
