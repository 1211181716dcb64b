package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type HealthHandler struct {
	healthRepo repositories.HealthRepository
	version    string
	log        *zap.Logger
}

func NewHealthHandler(healthRepo repositories.HealthRepository, version string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		healthRepo: healthRepo,
		version:    version,
		log:        log,
	}
}

// HandleHealth handles GET /health. The service reports healthy while the
// database is down; the database field carries that state.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	database := "unknown"
	if h.healthRepo != nil {
		database = "up"
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := h.healthRepo.Ping(ctx); err != nil {
			h.log.Warn("Database ping failed", zap.Error(err))
			database = "down"
		}
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}
