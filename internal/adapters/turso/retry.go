package turso

import (
	"context"
	"strings"
	"time"
)

// readRetries is how often read queries are retried after a stream error.
const readRetries = 2

// isStreamError reports whether err is a remote libsql "stream not found" error,
// raised when the server closed an idle stream the pool still holds.
func isStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// withRetry runs fn, retrying up to maxRetries times on stream errors.
func withRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !isStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
