package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr  string `env:"HTTP_ADDR" envDefault:":8080"`
	Debug bool   `env:"DEBUG" envDefault:"false"`
}

// OCRConfig configures the Google Document AI collaborator. When ProjectID
// or ProcessorID is empty the service degrades to local pdftotext
// extraction instead of refusing to start.
type OCRConfig struct {
	ProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	Location        string `env:"GOOGLE_CLOUD_LOCATION" envDefault:"eu"`
	ProcessorID     string `env:"GOOGLE_DOCUMENT_AI_PROCESSOR_ID"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	CredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`
	Pdftotext       string `env:"PDFTOTEXT_BIN" envDefault:"pdftotext"`
}

// LLMConfig holds the Anthropic client configuration.
type LLMConfig struct {
	APIKey      string        `env:"ANTHROPIC_API_KEY"`
	BaseURL     string        `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	Model       string        `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-20250514"`
	MaxTokens   int           `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`
	Timeout     time.Duration `env:"ANTHROPIC_TIMEOUT" envDefault:"20s"`
	MaxAttempts int           `env:"ANTHROPIC_MAX_ATTEMPTS" envDefault:"2"`
}

// RateLimitConfig selects the rate-limit backend. UpstashURL and
// UpstashToken must be set together; without them the limiter uses the
// process-local counter when Memory is set, and otherwise degrades to the
// permissive fallback that never blocks traffic.
type RateLimitConfig struct {
	UpstashURL   string        `env:"UPSTASH_REDIS_REST_URL"`
	UpstashToken string        `env:"UPSTASH_REDIS_REST_TOKEN"`
	Memory       bool          `env:"RATE_LIMIT_MEMORY" envDefault:"false"`
	Limit        int           `env:"RATE_LIMIT" envDefault:"10"`
	Window       time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate reports every misconfigured variable at once so a bad deploy
// fails with the full list instead of one variable per restart.
func (c *Config) Validate() error {
	var issues []string
	if c.LLM.APIKey == "" {
		issues = append(issues, "ANTHROPIC_API_KEY is required")
	} else if !strings.HasPrefix(c.LLM.APIKey, "sk-ant-") {
		issues = append(issues, "ANTHROPIC_API_KEY must start with 'sk-ant-'")
	}
	if (c.RateLimit.UpstashURL == "") != (c.RateLimit.UpstashToken == "") {
		issues = append(issues, "UPSTASH_REDIS_REST_URL and UPSTASH_REDIS_REST_TOKEN must be set together")
	}
	if c.RateLimit.Limit <= 0 {
		issues = append(issues, "RATE_LIMIT must be positive")
	}
	if c.RateLimit.Window <= 0 {
		issues = append(issues, "RATE_LIMIT_WINDOW must be positive")
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// DocumentAIConfigured reports whether the Document AI collaborator can be
// used at all.
func (c *Config) DocumentAIConfigured() bool {
	return c.OCR.ProjectID != "" && c.OCR.ProcessorID != ""
}
