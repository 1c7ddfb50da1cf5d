package logger

import (
	"io"
	"log/slog"
	"os"
)

// preset is the handler shape of one deployment environment.
type preset struct {
	level slog.Level
	json  bool
}

var presets = map[Environment]preset{
	EnvDevelopment: {level: slog.LevelDebug},
	EnvStaging:     {level: slog.LevelInfo, json: true},
	EnvProduction:  {level: slog.LevelInfo, json: true},
}

type Option func(*config)

type config struct {
	preset     preset
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// WithEnvironment applies the preset of env (see ParseEnvironment) and tags
// every record with the service and environment names.
func WithEnvironment(env, service string) Option {
	return func(c *config) {
		e := ParseEnvironment(env)
		c.preset = presets[e]
		c.attrs = append(c.attrs, slog.String("env", string(e)))
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithContextExtractors registers callbacks that add attributes from the
// context of each record. Nil extractors are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, extractors...)
	}
}

// New builds a logger. Without options it writes JSON at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{preset: presets[EnvProduction], output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.preset.level}
	var h slog.Handler
	if c.preset.json {
		h = slog.NewJSONHandler(c.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(c.output, handlerOpts)
	}
	if len(c.attrs) > 0 {
		h = h.WithAttrs(c.attrs)
	}
	return slog.New(NewLogHandlerDecorator(h, c.extractors...))
}

// Discard returns a logger that drops every record. Components use it when
// no logger option is given.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
