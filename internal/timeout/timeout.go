package timeout

import (
	"errors"
	"time"
)

// Error marks a missed deadline so callers can tell it apart from the
// operation's own failure.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsTimeout reports whether err came from a missed deadline.
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

// Do races op against d. If op finishes first, its result or failure is
// returned unchanged; otherwise Do returns an Error carrying msg. The losing
// op is left to finish in the background, it is not cancelled.
func Do[T any](d time.Duration, msg string, op func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := op()
		ch <- outcome{v: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case out := <-ch:
		return out.v, out.err
	case <-timer.C:
		var zero T
		return zero, &Error{Message: msg}
	}
}
