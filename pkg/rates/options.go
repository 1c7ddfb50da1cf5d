package rates

import (
	"log/slog"
	"time"
)

type Option func(*Engine)

// WithClock overrides time.Now, used for rule creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
