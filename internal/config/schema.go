package config

import (
	"fmt"
	"time"

	"github.com/auditoria/textaudit/internal/providers"
)

// Config holds textaudit configuration.
// Stored at: config.yaml (working directory or ~/.textaudit)
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Analysis  AnalysisCfg            `mapstructure:"analysis" yaml:"analysis"`
}

// ProviderCfg configures an LLM provider.
type ProviderCfg struct {
	Type       string `mapstructure:"type" yaml:"type"`       // "gemini", "openai", "mock"
	Model      string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey     string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	BaseURL    string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	RateLimit  int    `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies the default provider selection.
type DefaultsCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
}

// AnalysisCfg carries generation and batching parameters.
type AnalysisCfg struct {
	BatchSize             int     `mapstructure:"batch_size" yaml:"batch_size"`
	Temperature           float64 `mapstructure:"temperature" yaml:"temperature"`
	TopP                  float64 `mapstructure:"top_p" yaml:"top_p"`
	MaxOutputTokens       int     `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:       "gemini",
				Model:      "gemini-2.5-flash",
				APIKey:     "${GOOGLE_API_KEY}",
				RateLimit:  60,
				MaxRetries: 3,
				Enabled:    true,
			},
			"openai": {
				Type:       "openai",
				Model:      "gpt-4o",
				APIKey:     "${OPENAI_API_KEY}",
				RateLimit:  60,
				MaxRetries: 3,
				Enabled:    false,
			},
		},
		Defaults: DefaultsCfg{
			Provider: "gemini",
		},
		Analysis: AnalysisCfg{
			BatchSize:             1,
			Temperature:           0.1,
			TopP:                  0.9,
			MaxOutputTokens:       54000,
			RequestTimeoutSeconds: 120,
		},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// Validate checks that the configuration can drive an analysis run.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	if c.Defaults.Provider == "" {
		return fmt.Errorf("defaults.provider is not set")
	}
	p, ok := c.Providers[c.Defaults.Provider]
	if !ok {
		return fmt.Errorf("default provider %q is not configured", c.Defaults.Provider)
	}
	if !p.Enabled {
		return fmt.Errorf("default provider %q is disabled", c.Defaults.Provider)
	}
	if c.Analysis.BatchSize < 1 {
		return fmt.Errorf("analysis.batch_size must be at least 1")
	}
	if c.Analysis.Temperature < 0 || c.Analysis.Temperature > 2 {
		return fmt.Errorf("analysis.temperature must be between 0 and 2")
	}
	if c.Analysis.TopP < 0 || c.Analysis.TopP > 1 {
		return fmt.Errorf("analysis.top_p must be between 0 and 1")
	}
	return nil
}

// ToProviderConfig converts a named provider entry into the form the
// providers factory takes. ${ENV_VAR} references in the API key are
// resolved here.
func (c *Config) ToProviderConfig(name string) (providers.Config, error) {
	p, ok := c.Providers[name]
	if !ok {
		return providers.Config{}, fmt.Errorf("provider %q is not configured", name)
	}
	return providers.Config{
		Type:       p.Type,
		Model:      p.Model,
		APIKey:     ResolveEnvVars(p.APIKey),
		BaseURL:    p.BaseURL,
		RateLimit:  p.RateLimit,
		MaxRetries: p.MaxRetries,
		Timeout:    time.Duration(c.Analysis.RequestTimeoutSeconds) * time.Second,
	}, nil
}
