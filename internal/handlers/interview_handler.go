package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

// InterviewHandler covers both the recruiter routes and the public
// candidate routes that authenticate with the interview access token.
type InterviewHandler struct {
	interviews services.InterviewService
}

func NewInterviewHandler(interviews services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

func (h *InterviewHandler) HandleInvite(c *fiber.Ctx) error {
	var req models.InviteRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	interview, err := h.interviews.Invite(c.UserContext(), currentCaller(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(interview)
}

func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	page := pageQuery(c)
	interviews, total, err := h.interviews.List(c.UserContext(), currentCaller(c), models.InterviewStatus(c.Query("status")), page)
	if err != nil {
		return err
	}
	return paginated(c, interviews, page, total)
}

func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	interview, err := h.interviews.Get(c.UserContext(), currentCaller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

func (h *InterviewHandler) HandleCancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.interviews.Cancel(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Interview cancelled")
}

func (h *InterviewHandler) HandleFeedback(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.FeedbackRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	interview, err := h.interviews.SubmitFeedback(c.UserContext(), currentCaller(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

func (h *InterviewHandler) HandleCandidateGet(c *fiber.Ctx) error {
	interview, err := h.interviews.GetByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

func (h *InterviewHandler) HandleCandidateDetails(c *fiber.Ctx) error {
	var req models.CandidateDetailsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.interviews.SaveCandidateDetails(c.UserContext(), c.Params("token"), req); err != nil {
		return err
	}
	return message(c, "Candidate details saved")
}

func (h *InterviewHandler) HandleCandidateStart(c *fiber.Ctx) error {
	interview, err := h.interviews.Start(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(interview)
}

func (h *InterviewHandler) HandleCandidateAnswer(c *fiber.Ctx) error {
	var req models.AnswerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.interviews.SubmitAnswer(c.UserContext(), c.Params("token"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *InterviewHandler) HandleCandidateComplete(c *fiber.Ctx) error {
	resp, err := h.interviews.Complete(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *InterviewHandler) HandleCandidateStatus(c *fiber.Ctx) error {
	status, err := h.interviews.Status(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(status)
}
