package fs

import (
	"context"
	"fmt"
	"time"
)

const (
	maxRetries  = 5
	baseBackoff = 100 * time.Millisecond
)

// retry runs fn until it succeeds, fails with a non-transient error or
// runs out of attempts. Backoff doubles after every transient failure.
func retry(ctx context.Context, opName string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return fmt.Errorf("%s failed permanently: %w", opName, err)
		}
		if attempt == maxRetries {
			break
		}

		timer := time.NewTimer(baseBackoff * (1 << (attempt - 1)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%s failed after %d retries: %w", opName, maxRetries, lastErr)
}
