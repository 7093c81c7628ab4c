package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Interview InterviewConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Version            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	FeedLogFilePath    string
	LogsEndpoint       bool
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	RateLimitPerMinute int
	EventTopic         string
}

type SMTPConfig struct {
	Host            string
	Port            int
	Email           string
	Password        string
	SenderName      string
	ReportRecipient string
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.ReportRecipient != ""
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	LLMBaseURL        string
	LLMAPIKey         string
	Timeout           time.Duration
	MaxRetries        uint64
	RequestsPerSecond float64
	FallbackQuestions bool
}

type InterviewConfig struct {
	SessionStore           string // "redis" or "memory"
	SessionTTL             time.Duration
	DefaultDurationMinutes int
	MinDurationMinutes     int
	MaxDurationMinutes     int
	PhaseCatalogPath       string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Version:            getEnv("APP_VERSION", "dev"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "logs/live_feed.log"),
			LogsEndpoint:       getEnvAsBool("LOGS_ENDPOINT_ENABLED", false),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			EventTopic:         getEnv("INTERVIEW_EVENTS_TOPIC", "interview.events"),
		},
		SMTP: SMTPConfig{
			Host:            getEnv("SMTP_HOST", ""),
			Port:            getEnvAsInt("SMTP_PORT", 587),
			Email:           getEnv("SMTP_EMAIL", ""),
			Password:        getEnv("SMTP_PASSWORD", ""),
			SenderName:      getEnv("SMTP_SENDER_NAME", "AI Interviewer <noreply@localhost>"),
			ReportRecipient: getEnv("REPORT_RECIPIENT_EMAIL", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
			Timeout:           getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			MaxRetries:        getEnvAsUint("LLM_MAX_RETRIES", 2),
			RequestsPerSecond: getEnvAsFloat("LLM_REQUESTS_PER_SECOND", 0),
			FallbackQuestions: getEnvAsBool("AI_FALLBACK_QUESTIONS", false),
		},
		Interview: InterviewConfig{
			SessionStore:           strings.ToLower(getEnv("SESSION_STORE", "redis")),
			SessionTTL:             getEnvAsDuration("SESSION_TTL", time.Hour),
			DefaultDurationMinutes: getEnvAsInt("INTERVIEW_DEFAULT_MINUTES", 60),
			MinDurationMinutes:     getEnvAsInt("INTERVIEW_MIN_MINUTES", 30),
			MaxDurationMinutes:     getEnvAsInt("INTERVIEW_MAX_MINUTES", 120),
			PhaseCatalogPath:       getEnv("PHASE_CATALOG_PATH", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// BaseURL picks the provider endpoint, falling back to the Ollama URL.
func (c AIConfig) BaseURL() string {
	if c.LLMBaseURL != "" {
		return c.LLMBaseURL
	}
	if c.LLMProvider == "" || c.LLMProvider == "ollama" {
		return c.OllamaBaseURL
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsUint falls back on negative values instead of wrapping around.
func getEnvAsUint(key string, fallback uint64) uint64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseUint(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
