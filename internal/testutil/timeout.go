package testutil

import (
	"context"
	"testing"
	"time"
)

const (
	// DefaultTestBuffer is subtracted from the test deadline to leave time
	// for cleanup before the test times out.
	DefaultTestBuffer = 2 * time.Second

	// CommitWait bounds how long a test waits for a debounced commit.
	CommitWait = 2 * time.Second

	// CommitTick is the polling interval while waiting for a commit.
	CommitTick = 5 * time.Millisecond
)

// ContextWithTestDeadline creates a context that respects the test's deadline.
// If the test has no deadline, it falls back to the provided duration.
func ContextWithTestDeadline(t *testing.T, fallback time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadlineBuffer(t, fallback, DefaultTestBuffer)
}

// ContextWithTestDeadlineBuffer is ContextWithTestDeadline with a custom
// cleanup buffer. If the test deadline minus buffer is already past, the
// fallback is used.
func ContextWithTestDeadlineBuffer(t *testing.T, fallback, buffer time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	if deadline, ok := t.Deadline(); ok {
		adjusted := deadline.Add(-buffer)
		if time.Until(adjusted) > 0 && time.Until(adjusted) < fallback {
			return context.WithDeadline(context.Background(), adjusted)
		}
	}

	return context.WithTimeout(context.Background(), fallback)
}

// ShortOperationContext creates a context for event-loop tests that should
// finish within a few seconds.
func ShortOperationContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadline(t, 5*time.Second)
}
