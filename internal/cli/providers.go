package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/services"
)

// providers holds the model clients shared by the commands.
type providers struct {
	llm      services.LLMService
	embedder services.EmbeddingService
}

func newProviders(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*providers, error) {
	var (
		base   services.LLMService
		gemini services.GeminiService
		err    error
	)

	if cfg.LLM.GeminiAPIKey != "" {
		gemini, err = services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.GeminiEmbedModel)
		if err != nil {
			return nil, err
		}
	}

	switch cfg.LLM.Provider {
	case config.ProviderGroq:
		base, err = services.NewGroqService(cfg.LLM.GroqAPIKey, cfg.LLM.GroqBaseURL, cfg.LLM.GroqModel)
		if err != nil {
			return nil, err
		}
	case config.ProviderGemini:
		if gemini == nil {
			return nil, fmt.Errorf("gemini api key is required")
		}
		base = gemini
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLM.Provider)
	}

	log.Info("✅ LLM provider initialized",
		zap.String("provider", base.Name()),
		zap.Bool("circuit_breaker", cfg.CircuitBreaker.Enabled))

	p := &providers{
		llm: services.NewResilientLLM(base, cfg.LLM, cfg.CircuitBreaker, log, m),
	}
	if gemini != nil {
		p.embedder = gemini
	}
	return p, nil
}

// newGuidelineIndex connects to Qdrant and prepares the collection.
func newGuidelineIndex(ctx context.Context, cfg *config.Config, embedder services.EmbeddingService, log *zap.Logger) (services.GuidelineIndex, error) {
	if embedder == nil {
		return nil, fmt.Errorf("guideline index needs GEMINI_API_KEY for embeddings")
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return nil, err
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		return nil, err
	}

	return services.NewGuidelineIndex(embedder, qdrantService, cfg.Qdrant.TopK, log), nil
}
