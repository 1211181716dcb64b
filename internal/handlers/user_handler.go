package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type UserHandler struct {
	users services.UserService
	log   *zap.Logger
}

func NewUserHandler(users services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// HandleCreate handles POST /users
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.users.Register(req)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return errorResponse(c, fiber.StatusBadRequest, validationErr.Message)
		case errors.Is(err, services.ErrUserExists):
			return errorResponse(c, fiber.StatusConflict, "A user with this email already exists")
		}

		h.log.Error("❌ Failed to create user", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetByEmail handles GET /users?email=
func (h *UserHandler) HandleGetByEmail(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.Query("email"))
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return errorResponse(c, fiber.StatusBadRequest, validationErr.Message)
		case errors.Is(err, services.ErrUserNotFound):
			return errorResponse(c, fiber.StatusNotFound, "User not found")
		}

		h.log.Error("❌ Failed to find user", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve user")
	}

	return c.JSON(user)
}
