package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type InterviewHandler struct {
	interviews services.InterviewService
	log        *zap.Logger
}

func NewInterviewHandler(interviews services.InterviewService, log *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		log:        log,
	}
}

// HandleStart handles POST /start-interview
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid JSON payload.")
	}

	if len(req.ResumeData) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Request JSON must include a valid 'resumeData' object.")
	}

	resp, err := h.interviews.Start(c.UserContext(), req.ResumeData, req.UserID)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return errorResponse(c, fiber.StatusBadRequest, validationErr.Message)
		}

		h.log.Error("❌ Failed to start interview", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to start interview due to an internal error.")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleContinue handles POST /continue-interview
func (h *InterviewHandler) HandleContinue(c *fiber.Ctx) error {
	var req models.ContinueInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid JSON payload.")
	}

	resp, err := h.interviews.Continue(c.UserContext(), req.InterviewID, req.UserResponse)
	if err != nil {
		var (
			validationErr *services.ValidationError
			statusErr     *services.StatusError
		)
		switch {
		case errors.Is(err, services.ErrInterviewNotFound):
			return errorResponse(c, fiber.StatusNotFound, "Interview not found or invalid ID.")
		case errors.As(err, &validationErr):
			return errorResponse(c, fiber.StatusBadRequest, validationErr.Message)
		case errors.As(err, &statusErr):
			return errorResponse(c, fiber.StatusBadRequest, statusErr.Error())
		}

		h.log.Error("❌ Failed to continue interview",
			zap.String("interview_id", req.InterviewID),
			zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to continue interview due to an internal error.")
	}

	return c.JSON(resp)
}

// HandleEnd handles POST /end-interview
func (h *InterviewHandler) HandleEnd(c *fiber.Ctx) error {
	var req models.EndInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid JSON payload.")
	}

	resp, err := h.interviews.End(c.UserContext(), req.InterviewID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInterviewNotFound):
			return errorResponse(c, fiber.StatusNotFound, "Interview not found or invalid ID.")
		case errors.Is(err, services.ErrMissingUserID):
			return errorResponse(c, fiber.StatusBadRequest, "Cannot save interview: User ID was not associated during start.")
		case errors.Is(err, services.ErrInvalidUserID):
			return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID format associated with interview.")
		}

		h.log.Error("❌ Failed to end interview",
			zap.String("interview_id", req.InterviewID),
			zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred while ending the interview.")
	}

	return c.JSON(resp)
}

// HandleGet handles GET /interviews/:id
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	interview, err := h.interviews.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrInterviewNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Interview not found")
		}
		h.log.Error("❌ Failed to load interview", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve interview")
	}

	return c.JSON(interview)
}

// HandleGetChat handles GET /interviews/:id/chat
func (h *InterviewHandler) HandleGetChat(c *fiber.Ctx) error {
	chat, err := h.interviews.GetChat(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrInterviewNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Chat transcript not found")
		}
		h.log.Error("❌ Failed to load chat", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve chat transcript")
	}

	return c.JSON(chat)
}

// HandleListByUser handles GET /users/:id/interviews
func (h *InterviewHandler) HandleListByUser(c *fiber.Ctx) error {
	interviews, err := h.interviews.ListByUser(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidUserID) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID format")
		}
		h.log.Error("❌ Failed to list interviews", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve interviews")
	}

	return c.JSON(fiber.Map{
		"interviews": interviews,
	})
}
