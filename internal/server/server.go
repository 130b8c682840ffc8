// Package server wires the HTTP surface: the invoice check endpoint,
// the health endpoint and graceful lifecycle management.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/factuurcheck/factuurcheck/internal/common"
	"github.com/factuurcheck/factuurcheck/internal/llm"
	"github.com/factuurcheck/factuurcheck/internal/ocr"
	"github.com/factuurcheck/factuurcheck/internal/ratelimit"
)

type Server struct {
	cfg       common.Config
	logger    *slog.Logger
	limiter   ratelimit.Limiter
	extractor ocr.TextExtractor
	analyzer  llm.FieldExtractor
}

func New(cfg common.Config, logger *slog.Logger, limiter ratelimit.Limiter, extractor ocr.TextExtractor, analyzer llm.FieldExtractor) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		limiter:   limiter,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/check", s.handleCheck)
	r.Get("/api/health", s.handleHealth)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
