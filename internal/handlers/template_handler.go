package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

type TemplateHandler struct {
	templates services.TemplateService
}

func NewTemplateHandler(templates services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) HandleList(c *fiber.Ctx) error {
	templates, err := h.templates.List(c.UserContext(), currentCaller(c), models.TemplateCategory(c.Query("category")))
	if err != nil {
		return err
	}
	return c.JSON(templates)
}

func (h *TemplateHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.TemplateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	template, err := h.templates.Create(c.UserContext(), currentCaller(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(template)
}

func (h *TemplateHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.TemplateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	template, err := h.templates.Update(c.UserContext(), currentCaller(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(template)
}

func (h *TemplateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.templates.Deactivate(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Template deactivated")
}
