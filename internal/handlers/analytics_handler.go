package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// HandleOverview returns the analytics view for the caller's role. A
// customer admin may pass ?userId to view one of their recruiters.
func (h *AnalyticsHandler) HandleOverview(c *fiber.Ctx) error {
	caller := currentCaller(c)
	ctx := c.UserContext()

	switch caller.Role {
	case models.RoleSuperAdmin:
		out, err := h.analytics.Platform(ctx)
		if err != nil {
			return err
		}
		return c.JSON(out)

	case models.RoleCustomerAdmin:
		if raw := c.Query("userId"); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid userId format")
			}
			out, err := h.analytics.Recruiter(ctx, caller.OrgID(), userID)
			if err != nil {
				return err
			}
			return c.JSON(out)
		}
		out, err := h.analytics.Organization(ctx, caller.OrgID())
		if err != nil {
			return err
		}
		return c.JSON(out)

	case models.RoleRecruiter:
		out, err := h.analytics.Recruiter(ctx, caller.OrgID(), caller.UserID)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}

	return fiber.NewError(fiber.StatusForbidden, "Access denied. Insufficient permissions")
}

func (h *AnalyticsHandler) HandleRecruiterDashboard(c *fiber.Ctx) error {
	caller := currentCaller(c)
	out, err := h.analytics.Recruiter(c.UserContext(), caller.OrgID(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AnalyticsHandler) HandleRecruiterJobs(c *fiber.Ctx) error {
	caller := currentCaller(c)
	out, err := h.analytics.Recruiter(c.UserContext(), caller.OrgID(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": out.JobsPerformance, "total": len(out.JobsPerformance)})
}

func (h *AnalyticsHandler) HandleExportMatches(c *fiber.Ctx) error {
	return h.export(c, "matches", h.analytics.ExportMatches)
}

func (h *AnalyticsHandler) HandleExportResumes(c *fiber.Ctx) error {
	return h.export(c, "resumes", h.analytics.ExportResumes)
}

func (h *AnalyticsHandler) HandleExportInterviews(c *fiber.Ctx) error {
	return h.export(c, "interviews", h.analytics.ExportInterviews)
}

type exportFunc func(ctx context.Context, caller *models.Caller, w io.Writer) error

// export buffers the CSV so a failed query still yields a JSON error.
func (h *AnalyticsHandler) export(c *fiber.Ctx, name string, fn exportFunc) error {
	var buf bytes.Buffer
	if err := fn(c.UserContext(), currentCaller(c), &buf); err != nil {
		return err
	}

	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
