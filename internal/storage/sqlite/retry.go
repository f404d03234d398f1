package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultRetries    = 3
	defaultRetryDelay = 50 * time.Millisecond
)

// isRetryableError reports SQLITE_BUSY / SQLITE_LOCKED failures.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "SQLITE_LOCKED") ||
		strings.Contains(errStr, "database table is locked")
}

// retryOperation runs operation until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx is done. The delay grows linearly.
func retryOperation(ctx context.Context, operation func() error, maxRetries int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return err
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay * time.Duration(i+1)):
			}
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, lastErr)
}

// withRetry is retryOperation with the package defaults.
func withRetry(ctx context.Context, operation func() error) error {
	return retryOperation(ctx, operation, defaultRetries, defaultRetryDelay)
}
