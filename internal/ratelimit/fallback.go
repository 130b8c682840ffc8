package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Fallback allows every request. It exists so the service keeps serving when
// no counting backend is configured; it reports a fixed budget and warns
// once that rate limiting is off.
type Fallback struct {
	limit  int
	window time.Duration
	logger *slog.Logger
	warn   sync.Once
	now    func() time.Time
}

func NewFallback(limit int, window time.Duration, logger *slog.Logger) *Fallback {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{limit: limit, window: window, logger: logger, now: time.Now}
}

func (f *Fallback) Allow(context.Context, string) (Result, error) {
	f.warn.Do(func() {
		f.logger.Warn("ratelimit.disabled", "reason", "UPSTASH_REDIS_REST_URL not configured")
	})
	return Result{
		Allowed:   true,
		Limit:     f.limit,
		Remaining: f.limit,
		Reset:     f.now().Add(f.window).UnixMilli(),
	}, nil
}
