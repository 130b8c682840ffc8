package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LocalConfig configures the pdftotext extractor.
type LocalConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// Local extracts text with a local pdftotext binary. It is the degraded
// path for deployments that have no Document AI processor configured; only
// digital PDFs with an embedded text layer yield text.
type Local struct {
	cfg    LocalConfig
	runner Runner
	logger *slog.Logger
	warn   sync.Once
}

func NewLocal(cfg LocalConfig, logger *slog.Logger) *Local {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

func (l *Local) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	l.warn.Do(func() {
		l.logger.Warn("ocr.local", "reason", "Google Document AI not configured, using pdftotext")
	})

	tmpDir, err := os.MkdirTemp("", "factuurcheck-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			l.logger.Warn("ocr.local.cleanup_failed", "path", path, "error", err)
		}
	}(tmpDir)

	path := filepath.Join(tmpDir, "upload.pdf")
	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := l.runner.Run(ctx, l.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
