package patterns

import (
	"context"
	"time"
)

// DefaultTimeout is the default timeout for HTTP requests
const DefaultTimeout = 3 * time.Second

// WithTimeout derives a context bounded by duration for fail-fast behavior.
// A non-positive duration falls back to DefaultTimeout.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = DefaultTimeout
	}
	return context.WithTimeout(parent, duration)
}
