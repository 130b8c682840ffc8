package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/factuurcheck/factuurcheck/internal/common"
	"github.com/factuurcheck/factuurcheck/internal/llm/anthropic"
	"github.com/factuurcheck/factuurcheck/internal/ocr"
	"github.com/factuurcheck/factuurcheck/internal/ratelimit"
	"github.com/factuurcheck/factuurcheck/internal/server"
)

func main() {
	// Env (.env is optional, real env wins)
	_ = godotenv.Load()

	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("config.load_failed", "err", err)
		os.Exit(1)
	}

	// Logger
	level := slog.LevelInfo
	if cfg.Server.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rate limiter: Upstash when configured, else the in-process counter,
	// else the permissive fallback that never blocks.
	var limiter ratelimit.Limiter
	switch {
	case cfg.RateLimit.UpstashURL != "":
		limiter = ratelimit.NewUpstash(ratelimit.UpstashConfig{
			URL:    cfg.RateLimit.UpstashURL,
			Token:  cfg.RateLimit.UpstashToken,
			Limit:  cfg.RateLimit.Limit,
			Window: cfg.RateLimit.Window,
		}, logger)
		logger.Info("ratelimit.backend", "kind", "upstash")
	case cfg.RateLimit.Memory:
		mem := ratelimit.NewMemory(cfg.RateLimit.Limit, cfg.RateLimit.Window, logger)
		mem.Start()
		defer mem.Stop()
		limiter = mem
		logger.Info("ratelimit.backend", "kind", "memory")
	default:
		limiter = ratelimit.NewFallback(cfg.RateLimit.Limit, cfg.RateLimit.Window, logger)
		logger.Info("ratelimit.backend", "kind", "fallback")
	}

	// OCR: Document AI when configured, else local pdftotext.
	var extractor ocr.TextExtractor
	if cfg.DocumentAIConfigured() {
		docai, err := ocr.NewDocumentAI(ctx, ocr.DocumentAIConfig{
			ProjectID:       cfg.OCR.ProjectID,
			Location:        cfg.OCR.Location,
			ProcessorID:     cfg.OCR.ProcessorID,
			CredentialsFile: cfg.OCR.CredentialsFile,
			CredentialsJSON: cfg.OCR.CredentialsJSON,
		}, logger)
		if err != nil {
			logger.Error("ocr.init_failed", "err", err)
			os.Exit(1)
		}
		extractor = docai
		logger.Info("ocr.backend", "kind", "documentai", "location", cfg.OCR.Location)
	} else {
		extractor = ocr.NewLocal(ocr.LocalConfig{Pdftotext: cfg.OCR.Pdftotext}, logger)
		logger.Info("ocr.backend", "kind", "local")
	}

	analyzer := anthropic.NewClient(anthropic.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		MaxAttempts: cfg.LLM.MaxAttempts,
	}, logger)

	srv := server.New(*cfg, logger, limiter, extractor, analyzer)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server.failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server.stopped")
}
