package factory

import (
	"fmt"
	"time"

	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/llm/huggingface"
	"ai-interview-be/pkg/llm/ollama"
)

type Config struct {
	Provider          string
	Model             string
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        uint64
	RequestsPerSecond float64
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	var provider llm.LLMProvider

	switch cfg.Provider {
	case "ollama", "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		provider = ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout).
			WithRateLimit(cfg.RequestsPerSecond, 1)
	case "huggingface":
		provider = huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	return llm.NewRetryingProvider(provider, cfg.MaxRetries, 0), nil
}
