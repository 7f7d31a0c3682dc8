package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	user, err := h.auth.Profile(c.UserContext(), currentCaller(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleLogout is a no-op for stateless tokens; clients drop the token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return message(c, "Logged out successfully")
}

func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return message(c, "If an account with that email exists, a password reset link has been sent")
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(c.UserContext(), req); err != nil {
		return err
	}
	return message(c, "Password has been reset successfully")
}
