package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/middleware"
)

type Options struct {
	Version     string
	BodyLimit   int
	MaxFileSize int64
	RateLimiter *middleware.LimiterManager
	Gatherer    prometheus.Gatherer
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

type Handlers struct {
	Resume    *handlers.ResumeHandler
	Interview *handlers.InterviewHandler
	User      *handlers.UserHandler
	Health    *handlers.HealthHandler
}

// New builds the HTTP application with middleware and routes.
func New(opts Options, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "AI Interviewer API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          2 * time.Minute,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          errorHandler(opts.Log, opts.MaxFileSize),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", h.Health.HandleHealth)
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// Everything below /health and /metrics counts against the client budget.
	if opts.RateLimiter != nil {
		app.Use(middleware.RateLimit(opts.RateLimiter, opts.Log, opts.Metrics))
	}

	app.Post("/parse-resume", h.Resume.HandleParseResume)
	app.Post("/start-interview", h.Interview.HandleStart)
	app.Post("/continue-interview", h.Interview.HandleContinue)
	app.Post("/end-interview", h.Interview.HandleEnd)

	app.Get("/interviews/:id", h.Interview.HandleGet)
	app.Get("/interviews/:id/chat", h.Interview.HandleGetChat)

	app.Post("/users", h.User.HandleCreate)
	app.Get("/users", h.User.HandleGetByEmail)
	app.Get("/users/:id/interviews", h.Interview.HandleListByUser)
	app.Get("/users/:id/resumes", h.Resume.HandleListResumes)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": opts.Version,
			"endpoints": []string{
				"POST /parse-resume",
				"POST /start-interview",
				"POST /continue-interview",
				"POST /end-interview",
				"GET /interviews/:id",
				"GET /interviews/:id/chat",
				"POST /users",
				"GET /users?email=",
				"GET /users/:id/interviews",
				"GET /users/:id/resumes",
				"GET /health",
				"GET /metrics",
			},
		})
	})

	return app
}

func errorHandler(log *zap.Logger, maxFileSize int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		message := err.Error()
		switch code {
		case fiber.StatusRequestEntityTooLarge:
			// Bodies over BodyLimit are rejected before any handler runs;
			// report them like an oversized resume.
			code = fiber.StatusBadRequest
			message = fmt.Sprintf("Resume file too large. Max size: %d bytes", maxFileSize)
		case fiber.StatusInternalServerError:
			log.Error("❌ Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			message = "Internal server error"
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}
