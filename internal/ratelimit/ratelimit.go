package ratelimit

import (
	"context"
	"strconv"
)

// Result reports one rate-limit decision. Reset is epoch-milliseconds; the
// X-RateLimit-Reset header carries it as a raw number in every limiter
// variant, so clients only ever see one representation.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     int64
}

// Limiter decides whether the caller identified by id may proceed.
type Limiter interface {
	Allow(ctx context.Context, id string) (Result, error)
}

// Headers maps a decision onto the three headers every API response carries.
func Headers(r Result) map[string]string {
	return map[string]string{
		"X-RateLimit-Limit":     strconv.Itoa(r.Limit),
		"X-RateLimit-Remaining": strconv.Itoa(r.Remaining),
		"X-RateLimit-Reset":     strconv.FormatInt(r.Reset, 10),
	}
}
