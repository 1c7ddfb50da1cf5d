package sessions

import (
	"log/slog"
	"time"
)

type Option func(*Orchestrator)

// WithClock overrides time.Now for entry and exit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func WithRecorder(rec Recorder) Option {
	return func(o *Orchestrator) {
		if rec != nil {
			o.rec = rec
		}
	}
}

func WithPublisher(pub Publisher) Option {
	return func(o *Orchestrator) {
		if pub != nil {
			o.pub = pub
		}
	}
}

// WithLocation sets the zone used to bucket entry hours in revenue reports.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.loc = loc
		}
	}
}
