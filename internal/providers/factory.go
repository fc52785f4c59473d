package providers

import (
	"fmt"
	"time"
)

// Config describes one provider entry from configuration.
type Config struct {
	Type       string // "gemini", "openai", "mock"
	Model      string
	APIKey     string
	BaseURL    string
	RateLimit  int // Requests per minute
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// New creates an LLMClient for the given provider configuration.
func New(cfg Config) (LLMClient, error) {
	switch cfg.Type {
	case GeminiName:
		return NewGeminiClient(GeminiConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
		})
	case OpenAIName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
		})
	case MockClientName:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}
