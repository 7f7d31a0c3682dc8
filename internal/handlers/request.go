package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/ats-platform/internal/middleware"
	"hireflow/ats-platform/internal/models"
)

const defaultPageLimit = 20

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name+" format")
	}
	return id, nil
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func pageQuery(c *fiber.Ctx) models.PageQuery {
	return models.NormalizePage(c.QueryInt("page", 1), c.QueryInt("limit", defaultPageLimit), defaultPageLimit)
}

func paginated(c *fiber.Ctx, data interface{}, page models.PageQuery, total int64) error {
	return c.JSON(fiber.Map{
		"data":       data,
		"pagination": models.NewPagination(page.Page, page.Limit, total),
	})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}

func currentCaller(c *fiber.Ctx) *models.Caller {
	return middleware.Caller(c)
}
