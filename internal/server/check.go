package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/middleware"

	"github.com/factuurcheck/factuurcheck/internal/common"
	"github.com/factuurcheck/factuurcheck/internal/compliance"
	"github.com/factuurcheck/factuurcheck/internal/ratelimit"
)

const (
	maxUploadBytes = 10 << 20
	maxTextRunes   = 100000

	msgRateLimited   = "Te veel verzoeken. Probeer het later opnieuw."
	msgNoFile        = "Geen bestand geüpload"
	msgNotPDF        = "Alleen PDF bestanden toegestaan"
	msgFileTooLarge  = "Bestand te groot (max 10MB)"
	msgNoText        = "Kon geen tekst uit de PDF halen"
	msgTextTooLongF  = "Factuurtekst te lang (%d tekens, maximaal %d)"
)

type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter string `json:"retryAfter,omitempty"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	rid := middleware.GetReqID(r.Context())
	ctx := common.WithRequestID(r.Context(), rid)
	log := s.logger.With("req_id", rid)

	id := clientID(r)

	res, err := s.limiter.Allow(ctx, id)
	if err != nil {
		// A broken rate-limit backend should not take the service down.
		log.Warn("check.ratelimit_error", "err", err)
	} else {
		for k, v := range ratelimit.Headers(res) {
			w.Header().Set(k, v)
		}
		if !res.Allowed {
			log.Info("check.rate_limited", "id", id)
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:      msgRateLimited,
				RetryAfter: time.UnixMilli(res.Reset).UTC().Format(time.RFC3339),
			})
			return
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgNoFile})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Header.Get("Content-Type") != "application/pdf" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgNotPDF})
		return
	}
	if header.Size > maxUploadBytes {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgFileTooLarge})
		return
	}

	pdf, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		log.Error("check.read_error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Er ging iets mis"})
		return
	}
	if len(pdf) > maxUploadBytes {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgFileTooLarge})
		return
	}

	start := time.Now()

	text, err := s.extractor.ExtractText(ctx, pdf)
	if err != nil {
		s.writeError(w, log, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msgNoText})
		return
	}
	if n := utf8.RuneCountInString(text); n > maxTextRunes {
		log.Info("check.text_too_long", "runes", n)
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf(msgTextTooLongF, n, maxTextRunes),
		})
		return
	}

	fields, err := s.analyzer.ExtractFields(ctx, text)
	if err != nil {
		s.writeError(w, log, err)
		return
	}

	result := compliance.Calculate(fields)

	log.Info("check.ok",
		"id", id,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, result)
}

// writeError maps a pipeline error onto the wire, logging the cause
// server-side. Rate-limit headers already set on w stay in place.
func (s *Server) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := common.HTTPStatus(err)
	msg := common.UserMessage(err)
	log.Error("check.error", "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: msg})
}

// clientID picks the first hop of X-Forwarded-For, falling back to a
// shared bucket for direct callers.
func clientID(r *http.Request) string {
	fwd := r.Header.Get("X-Forwarded-For")
	if fwd == "" {
		return "anonymous"
	}
	if i := strings.IndexByte(fwd, ','); i >= 0 {
		fwd = fwd[:i]
	}
	fwd = strings.TrimSpace(fwd)
	if fwd == "" {
		return "anonymous"
	}
	return fwd
}
