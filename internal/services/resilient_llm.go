package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/metrics"
)

type operationKey struct{}

// WithOperation labels the LLM call made with ctx for logs and metrics.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok {
		return op
	}
	return "chat"
}

type resilientLLM struct {
	next       LLMService
	cb         *gobreaker.CircuitBreaker[string]
	maxRetries int
	timeout    time.Duration
	backoff    time.Duration
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// NewResilientLLM wraps next with a per-call timeout, a bounded retry loop
// and, when enabled, a circuit breaker shared by all callers.
func NewResilientLLM(next LLMService, llmCfg config.LLMConfig, cbCfg config.CircuitBreakerConfig, log *zap.Logger, m *metrics.Metrics) LLMService {
	r := &resilientLLM{
		next:       next,
		maxRetries: llmCfg.MaxRetries,
		timeout:    llmCfg.Timeout,
		backoff:    500 * time.Millisecond,
		log:        log,
		metrics:    m,
	}
	if r.maxRetries < 1 {
		r.maxRetries = 1
	}

	if cbCfg.Enabled {
		name := "llm-" + next.Name()
		r.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        name,
			MaxRequests: cbCfg.MaxRequests,
			Interval:    cbCfg.Interval,
			Timeout:     cbCfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= cbCfg.MinRequests &&
					failureRatio >= cbCfg.FailureThreshold
			},
			IsSuccessful: func(err error) bool {
				// Caller cancellations say nothing about provider health.
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
				m.SetBreakerState(name, int(to))
			},
		})
	}

	return r
}

func (r *resilientLLM) Name() string {
	return r.next.Name()
}

// Chat implements LLMService.
func (r *resilientLLM) Chat(ctx context.Context, req ChatRequest) (string, error) {
	operation := operationFrom(ctx)
	var lastErr error

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		started := time.Now()
		result, err := r.execute(ctx, req)
		r.metrics.ObserveLLM(operation, started, err)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("llm unavailable: %w", err)
		}

		if attempt < r.maxRetries {
			r.log.Warn("LLM call failed, retrying",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", r.maxRetries, lastErr)
}

func (r *resilientLLM) execute(ctx context.Context, req ChatRequest) (string, error) {
	call := func() (string, error) {
		callCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		return r.next.Chat(callCtx, req)
	}

	if r.cb == nil {
		return call()
	}
	return r.cb.Execute(call)
}
