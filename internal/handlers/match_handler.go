package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

type MatchHandler struct {
	matcher services.MatchService
}

func NewMatchHandler(matcher services.MatchService) *MatchHandler {
	return &MatchHandler{matcher: matcher}
}

// HandleMatch scores a batch of resumes against one job. Per-resume
// failures are reported in the response body, not as an error status.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.matcher.MatchCandidates(c.UserContext(), currentCaller(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *MatchHandler) HandleListForJob(c *fiber.Ctx) error {
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return err
	}

	matches, err := h.matcher.ListForJob(c.UserContext(), currentCaller(c), jobID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": matches, "total": len(matches)})
}

func (h *MatchHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	match, err := h.matcher.Get(c.UserContext(), currentCaller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(match)
}

func (h *MatchHandler) HandleReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.ReviewRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	match, err := h.matcher.Review(c.UserContext(), currentCaller(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(match)
}
