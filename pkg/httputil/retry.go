package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure worth another attempt: network errors,
// 429 and 5xx responses.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err in a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a retry policy. The wait starts at Initial and doubles after
// each retryable failure, capped at Max when Max is set.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff is used by [FetchJSON]: three attempts, 500ms then 1s.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 500 * time.Millisecond, Max: 4 * time.Second}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts run out. It returns the last error, or ctx.Err() when ctx ends
// during a wait.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	wait := b.Initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
		if b.Max > 0 && wait > b.Max {
			wait = b.Max
		}
	}
}

// Retry runs fn under a Backoff of attempts starting at delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Initial: delay}.Do(ctx, fn)
}

// RetryWithBackoff runs fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
