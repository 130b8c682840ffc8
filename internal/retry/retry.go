package retry

import (
	"context"
	"time"

	"github.com/factuurcheck/factuurcheck/internal/timeout"
)

// Config bounds an attempt loop.
type Config struct {
	MaxAttempts    int           // total attempts including the first; <=0 means 1
	AttemptTimeout time.Duration // per-attempt deadline; 0 disables it
	TimeoutMessage string        // error message when an attempt misses its deadline
}

// Do runs op up to cfg.MaxAttempts times, each attempt under its own fresh
// deadline, and returns the first result that op produces without error and
// validate accepts. A nil validate accepts everything. When every attempt
// fails, the last attempt's error is returned.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error), validate func(T) error) (T, error) {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var (
		out T
		err error
	)
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return out, err
		}

		if cfg.AttemptTimeout > 0 {
			out, err = timeout.Do(cfg.AttemptTimeout, cfg.TimeoutMessage, func() (T, error) {
				return op(ctx)
			})
		} else {
			out, err = op(ctx)
		}
		if err == nil && validate != nil {
			err = validate(out)
		}
		if err == nil {
			return out, nil
		}
	}
	return out, err
}
