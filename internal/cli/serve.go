package cli

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/middleware"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/server"
	"alfredoptarigan/ai-interviewer/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview API server",
	Long: `Start the HTTP server.

Endpoints:
- POST /parse-resume: parse a PDF or DOCX resume into structured data
- POST /start-interview, /continue-interview, /end-interview: run an interview
- GET /interviews/:id, /users/:id/interviews: read stored interviews
- GET /health, /metrics: service health and Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	log := getLoggerFromContext(ctx)

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.Info("✅ Config loaded", zap.String("env", cfg.Server.Env), zap.Bool("env_file", cfg.EnvFileLoaded))

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	healthRepo := repositories.NewHealthRepository(db)
	log.Info("✅ Repositories initialized")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		return err
	}

	p, err := newProviders(ctx, cfg, log, m)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	var guidelines services.GuidelineRetriever
	if cfg.Qdrant.Enabled {
		index, err := newGuidelineIndex(ctx, cfg, p.embedder, log)
		if err != nil {
			log.Warn("⚠️ Guideline index unavailable, interviews run without it", zap.Error(err))
		} else {
			guidelines = index
			log.Info("✅ Guideline index initialized", zap.String("collection", cfg.Qdrant.Collection))
		}
	}

	worker := services.NewWorker(chatRepo, cfg.Worker.Concurrency, cfg.Worker.QueueSize, log, m)
	worker.Start(ctx)
	defer worker.Stop()

	store := services.NewSessionStore(cfg.Interview.SessionTTL, log)
	store.StartSweeper(time.Minute)
	defer store.Close()

	userService := services.NewUserService(userRepo, log)
	resumeParser := services.NewResumeParserService(p.llm, services.NewDocumentExtractor(), cfg.Interview.MaxResumeText, log, m)
	resumeLibrary := services.NewResumeLibrary(storageService, resumeRepo, log)
	interviewService := services.NewInterviewService(
		p.llm,
		store,
		interviewRepo,
		chatRepo,
		worker,
		guidelines,
		services.InterviewOptions{MaxMessages: cfg.Interview.MaxMessages},
		log,
		m,
	)
	log.Info("✅ Services initialized")

	var limiter *middleware.LimiterManager
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewLimiterManager(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Burst, log)
		limiter.StartCleanup(10 * time.Minute)
		defer limiter.Close()
	}

	app := server.New(server.Options{
		Version:     Version,
		BodyLimit:   int(cfg.Storage.MaxFileSize) + 1<<20,
		MaxFileSize: cfg.Storage.MaxFileSize,
		RateLimiter: limiter,
		Gatherer:    registry,
		Metrics:     m,
		Log:         log,
	}, server.Handlers{
		Resume:    handlers.NewResumeHandler(resumeParser, resumeLibrary, userService, cfg.Storage.MaxFileSize, log),
		Interview: handlers.NewInterviewHandler(interviewService, log),
		User:      handlers.NewUserHandler(userService, log),
		Health:    handlers.NewHealthHandler(healthRepo, Version, log),
	})

	go func() {
		<-ctx.Done()
		log.Info("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr), zap.String("version", Version))

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
