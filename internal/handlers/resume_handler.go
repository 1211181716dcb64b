package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type ResumeHandler struct {
	parser      services.ResumeParserService
	library     services.ResumeLibrary
	users       services.UserService
	maxFileSize int64
	log         *zap.Logger
}

func NewResumeHandler(
	parser services.ResumeParserService,
	library services.ResumeLibrary,
	users services.UserService,
	maxFileSize int64,
	log *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		parser:      parser,
		library:     library,
		users:       users,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleParseResume handles POST /parse-resume
func (h *ResumeHandler) HandleParseResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "No resume file provided in the 'resume' form field.")
	}

	if strings.TrimSpace(file.Filename) == "" {
		return errorResponse(c, fiber.StatusBadRequest, "No selected file.")
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	if _, err := services.DetectFileType(file.Filename); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Unsupported file type. Only PDF and DOCX are allowed.")
	}

	src, err := file.Open()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}

	parsed, err := h.parser.ParseResume(c.UserContext(), file.Filename, data)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return errorResponse(c, fiber.StatusBadRequest, validationErr.Message)
		}

		h.log.Error("❌ Resume parsing failed", zap.String("filename", file.Filename), zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred during resume parsing.")
	}

	response := models.ParseResumeResponse{ResumeData: *parsed}
	if userID := strings.TrimSpace(c.FormValue("userId")); userID != "" {
		response.ResumeID = h.storeResume(userID, file.Filename, data, *parsed)
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// storeResume keeps the upload for a registered user. Failures are logged
// and never fail the parse.
func (h *ResumeHandler) storeResume(userID, filename string, data []byte, parsed models.ResumeData) string {
	if h.library == nil || h.users == nil {
		return ""
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		h.log.Warn("Resume not stored, unknown user", zap.String("user_id", userID), zap.Error(err))
		return ""
	}

	resume, err := h.library.Save(user.ID, filename, data, parsed)
	if err != nil {
		h.log.Error("❌ Failed to store resume", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	return resume.ID.String()
}

// HandleListResumes handles GET /users/:id/resumes
func (h *ResumeHandler) HandleListResumes(c *fiber.Ctx) error {
	resumes, err := h.library.ListByUser(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidUserID) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID format")
		}
		h.log.Error("❌ Failed to list resumes", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve resumes")
	}

	return c.JSON(fiber.Map{
		"resumes": resumes,
	})
}
