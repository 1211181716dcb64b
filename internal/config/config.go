package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	LLM            LLMConfig
	CircuitBreaker CircuitBreakerConfig
	Qdrant         QdrantConfig
	Storage        StorageConfig
	Interview      InterviewConfig
	Worker         WorkerConfig
	RateLimit      RateLimitConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	ConnectRetry  int
	RetryInterval time.Duration
}

type LLMConfig struct {
	Provider         string
	GroqAPIKey       string
	GroqBaseURL      string
	GroqModel        string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiEmbedModel string
	MaxRetries       int
	Timeout          time.Duration
}

type CircuitBreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

type QdrantConfig struct {
	Enabled    bool
	URL        string
	APIKey     string
	Collection string
	TopK       int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type InterviewConfig struct {
	MaxMessages   int
	SessionTTL    time.Duration
	MaxResumeText int
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int
	Burst          int
}

func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		EnvFileLoaded: loaded,
		Server: ServerConfig{
			Port:     getEnv("PORT", "5000"),
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "ai_interviewer"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			ConnectRetry:  getEnvAsInt("DB_CONNECT_RETRY", 3),
			RetryInterval: getEnvAsDuration("DB_RETRY_INTERVAL", "2s"),
		},
		LLM: LLMConfig{
			Provider:         strings.ToLower(getEnv("LLM_PROVIDER", ProviderGroq)),
			GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:      getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			GroqModel:        getEnv("GROQ_MODEL", "llama3-70b-8192"),
			GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
			GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiEmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			MaxRetries:       getEnvAsInt("LLM_MAX_RETRIES", 3),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", "60s"),
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          getEnvAsBool("CB_ENABLED", true),
			MaxRequests:      uint32(getEnvAsInt("CB_MAX_REQUESTS", 3)),
			Interval:         getEnvAsDuration("CB_INTERVAL", "60s"),
			Timeout:          getEnvAsDuration("CB_TIMEOUT", "30s"),
			MinRequests:      uint32(getEnvAsInt("CB_MIN_REQUESTS", 5)),
			FailureThreshold: getEnvAsFloat("CB_FAILURE_THRESHOLD", 0.6),
		},
		Qdrant: QdrantConfig{
			Enabled:    getEnvAsBool("QDRANT_ENABLED", false),
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_guidelines"),
			TopK:       getEnvAsInt("QDRANT_TOP_K", 3),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Interview: InterviewConfig{
			MaxMessages:   getEnvAsInt("INTERVIEW_MAX_MESSAGES", 15),
			SessionTTL:    getEnvAsDuration("INTERVIEW_SESSION_TTL", "2h"),
			MaxResumeText: getEnvAsInt("MAX_RESUME_TEXT", 25000),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin: getEnvAsInt("RATE_LIMIT_PER_MIN", 60),
			Burst:          getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq:
		if c.LLM.GroqAPIKey == "" {
			return fmt.Errorf("missing GROQ_API_KEY for provider %q", c.LLM.Provider)
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("missing GEMINI_API_KEY for provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.Qdrant.Enabled && c.LLM.GeminiAPIKey == "" {
		return fmt.Errorf("QDRANT_ENABLED requires GEMINI_API_KEY for embeddings")
	}

	if c.Interview.MaxMessages < 3 {
		return fmt.Errorf("INTERVIEW_MAX_MESSAGES must be at least 3, got %d", c.Interview.MaxMessages)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
