package anthropic

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Anthropic client.
type Config struct {
	APIKey      string        // if empty, falls back to env ANTHROPIC_API_KEY
	BaseURL     string        // default https://api.anthropic.com
	Model       string        // e.g. "claude-sonnet-4-20250514"
	MaxTokens   int           // reply budget, default 1024
	Version     string        // anthropic-version header
	Timeout     time.Duration // per-attempt deadline, default 20s
	MaxAttempts int           // total attempts including the first, default 2
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Version == "" {
		cfg.Version = "2023-06-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	// No http.Client timeout here: the per-attempt deadline races the call
	// without cancelling it, and a client timeout would.
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}
