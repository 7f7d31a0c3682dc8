package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/services"
)

type ResumeHandler struct {
	resumes services.ResumeService
}

func NewResumeHandler(resumes services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	page := pageQuery(c)
	resumes, total, err := h.resumes.List(c.UserContext(), currentCaller(c), models.ResumeStatus(c.Query("status")), page)
	if err != nil {
		return err
	}
	return paginated(c, resumes, page, total)
}

// HandleUpload accepts a multipart "resume" file plus candidate form fields.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "resume file is required")
	}

	req := models.ResumeUploadRequest{
		CandidateName:  c.FormValue("candidateName"),
		CandidateEmail: c.FormValue("candidateEmail"),
		CandidatePhone: c.FormValue("candidatePhone"),
	}
	if raw := c.FormValue("jobId"); raw != "" {
		jobID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid jobId format")
		}
		req.JobID = &jobID
	}

	resp, err := h.resumes.Upload(c.UserContext(), currentCaller(c), file, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ResumeHandler) HandleBulkUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form is required")
	}

	resp, err := h.resumes.BulkUpload(c.UserContext(), currentCaller(c), form.File["resumes"])
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ResumeHandler) HandlePaste(c *fiber.Ctx) error {
	var req models.PasteResumeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resume, err := h.resumes.Paste(c.UserContext(), currentCaller(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resume)
}

func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	resume, err := h.resumes.Get(c.UserContext(), currentCaller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(resume)
}

func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.resumes.Delete(c.UserContext(), currentCaller(c), id); err != nil {
		return err
	}
	return message(c, "Resume deleted successfully")
}

func (h *ResumeHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateResumeStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resume, err := h.resumes.UpdateStatus(c.UserContext(), currentCaller(c), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(resume)
}
