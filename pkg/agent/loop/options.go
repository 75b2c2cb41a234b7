package loop

import (
	"time"

	"github.com/fpt/deskpilot/pkg/agent/events"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
)

const (
	DefaultMaxErrors        = 3
	DefaultMaxModelAttempts = 3
	DefaultRetryInterval    = time.Second
	// cleanupTimeout bounds the screenshot deletion that runs after cancellation
	cleanupTimeout = 10 * time.Second
)

type Option func(*Loop)

// WithMaxErrors sets the run-scoped budget of recoverable errors.
func WithMaxErrors(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxErrors = n
		}
	}
}

// WithModelRetry sets the transport attempts per model call and the fixed
// wait between them.
func WithModelRetry(attempts int, interval time.Duration) Option {
	return func(l *Loop) {
		if attempts > 0 {
			l.modelAttempts = attempts
		}
		if interval >= 0 {
			l.retryInterval = interval
		}
	}
}

// WithMaxIterations caps the number of iterations; 0 means unlimited.
func WithMaxIterations(n int) Option {
	return func(l *Loop) {
		if n >= 0 {
			l.maxIterations = n
		}
	}
}

func WithLogger(logger *pkgLogger.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEmitter replaces the default emitter so callers can subscribe before Run.
func WithEmitter(e *events.SimpleEventEmitter) Option {
	return func(l *Loop) {
		if e != nil {
			l.emitter = e
		}
	}
}
