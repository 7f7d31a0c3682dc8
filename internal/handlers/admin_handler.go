package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

// AdminHandler serves the super-admin and organization-admin consoles.
type AdminHandler struct {
	orgs     services.OrganizationService
	users    services.UserService
	matching services.MatchingConfigService
}

func NewAdminHandler(orgs services.OrganizationService, users services.UserService, matching services.MatchingConfigService) *AdminHandler {
	return &AdminHandler{orgs: orgs, users: users, matching: matching}
}

func (h *AdminHandler) HandleListOrganizations(c *fiber.Ctx) error {
	page := pageQuery(c)
	orgs, total, err := h.orgs.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return paginated(c, orgs, page, total)
}

func (h *AdminHandler) HandleCreateOrganization(c *fiber.Ctx) error {
	var req models.CreateOrganizationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	org, err := h.orgs.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

func (h *AdminHandler) HandleGetOrganization(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.orgs.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (h *AdminHandler) HandleUpdateOrganization(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateOrganizationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	org, err := h.orgs.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(org)
}

func (h *AdminHandler) HandleDeleteOrganization(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.orgs.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Organization deleted successfully")
}

func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page := pageQuery(c)
	users, total, err := h.orgs.ListUsers(c.UserContext(), currentCaller(c), models.Role(c.Query("role")), page)
	if err != nil {
		return err
	}
	return paginated(c, users, page, total)
}

func (h *AdminHandler) HandleGetSettings(c *fiber.Ctx) error {
	org, err := h.orgs.GetSettings(c.UserContext(), currentCaller(c))
	if err != nil {
		return err
	}
	return c.JSON(org)
}

func (h *AdminHandler) HandleUpdateSettings(c *fiber.Ctx) error {
	var settings models.OrganizationSettings
	if err := bindJSON(c, &settings); err != nil {
		return err
	}

	org, err := h.orgs.UpdateSettings(c.UserContext(), currentCaller(c), settings)
	if err != nil {
		return err
	}
	return c.JSON(org)
}

func (h *AdminHandler) HandleListRecruiters(c *fiber.Ctx) error {
	page := pageQuery(c)
	recruiters, total, err := h.users.ListRecruiters(c.UserContext(), currentCaller(c), page)
	if err != nil {
		return err
	}
	return paginated(c, recruiters, page, total)
}

func (h *AdminHandler) HandleCreateRecruiter(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.users.CreateRecruiter(c.UserContext(), currentCaller(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AdminHandler) HandleUpdateRecruiter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateRecruiter(c.UserContext(), currentCaller(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AdminHandler) HandleDeleteRecruiter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.DeleteRecruiter(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Recruiter removed successfully")
}

func (h *AdminHandler) HandleGetMatchingConfig(c *fiber.Ctx) error {
	cfg, err := h.matching.GetOrCreate(c.UserContext(), currentCaller(c).OrgID())
	if err != nil {
		return err
	}
	return c.JSON(cfg)
}

func (h *AdminHandler) HandleUpdateMatchingConfig(c *fiber.Ctx) error {
	var req models.UpdateMatchingConfigRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	cfg, err := h.matching.Update(c.UserContext(), currentCaller(c).OrgID(), req)
	if err != nil {
		return err
	}
	return c.JSON(cfg)
}
