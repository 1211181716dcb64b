package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"alfredoptarigan/ai-interviewer/internal/metrics"
)

// LimiterManager holds one token bucket per client key.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
	log      *zap.Logger
}

// NewLimiterManager allows requestsPerMin per key with the given burst.
func NewLimiterManager(requestsPerMin, burst int, log *zap.Logger) *LimiterManager {
	if burst < 1 {
		burst = 1
	}

	return &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		now:      time.Now,
		done:     make(chan struct{}),
		log:      log,
	}
}

// StartCleanup evicts limiters idle for longer than interval until Close.
func (m *LimiterManager) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.cleanup(interval)
			case <-m.done:
				return
			}
		}
	}()
}

func (m *LimiterManager) getLimiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = limiter
	}
	m.lastSeen[key] = m.now()

	return limiter
}

func (m *LimiterManager) Allow(key string) bool {
	return m.getLimiter(key).AllowN(m.now(), 1)
}

func (m *LimiterManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

func (m *LimiterManager) cleanup(evictionAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, lastSeen := range m.lastSeen {
		if now.Sub(lastSeen) > evictionAge {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}

	if m.log != nil {
		m.log.Debug("Rate limiter cleanup completed", zap.Int("remaining_limiters", len(m.limiters)))
	}
}

func (m *LimiterManager) Close() {
	m.once.Do(func() { close(m.done) })
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(limiter *LimiterManager, log *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if limiter.Allow(key) {
			return c.Next()
		}

		m.RateLimited()
		log.Info("Rate limit exceeded",
			zap.String("key", key),
			zap.String("path", c.Path()))

		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
		})
	}
}
