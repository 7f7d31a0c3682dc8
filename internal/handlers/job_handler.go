package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

type JobHandler struct {
	jobs    services.JobService
	matcher services.MatchService
}

func NewJobHandler(jobs services.JobService, matcher services.MatchService) *JobHandler {
	return &JobHandler{jobs: jobs, matcher: matcher}
}

func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	page := pageQuery(c)
	jobs, total, err := h.jobs.List(c.UserContext(), currentCaller(c), models.JobStatus(c.Query("status")), page)
	if err != nil {
		return err
	}
	return paginated(c, jobs, page, total)
}

func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.UserContext(), currentCaller(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobs.Get(c.UserContext(), currentCaller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.JobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.UserContext(), currentCaller(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Job deleted successfully")
}

func (h *JobHandler) HandleSuggestions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	suggestions, err := h.matcher.SuggestCandidates(c.UserContext(), currentCaller(c), id, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(suggestions)
}

func (h *JobHandler) HandlePublicList(c *fiber.Ctx) error {
	jobs, err := h.jobs.PublicList(c.UserContext(), models.PublicJobFilter{
		Search:         c.Query("search"),
		EmploymentType: models.EmploymentType(c.Query("type")),
		Location:       c.Query("location"),
	})
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

func (h *JobHandler) HandlePublicGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobs.PublicGet(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(job)
}
