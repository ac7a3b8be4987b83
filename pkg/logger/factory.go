package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format selects the logger output encoding.
type Format string

const (
	// FormatJSON outputs structured records for log aggregation.
	FormatJSON Format = "json"
	// FormatText outputs human-readable records for development.
	FormatText Format = "text"
)

type config struct {
	level   slog.Level
	format  Format
	output  io.Writer
	service string
	attrs   []slog.Attr
}

// Option configures logger creation.
type Option func(*config)

// WithLevel sets the minimum record level.
func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithText switches to human-readable text output.
func WithText() Option {
	return func(c *config) { c.format = FormatText }
}

// WithJSON switches to JSON output, the default.
func WithJSON() Option {
	return func(c *config) { c.format = FormatJSON }
}

// WithOutput sets a custom output destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithService stamps every record with a "service" attribute.
func WithService(name string) Option {
	return func(c *config) { c.service = name }
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// New creates a configured slog.Logger. Defaults are JSON at INFO on stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}

	attrs := cfg.attrs
	if cfg.service != "" {
		attrs = append([]slog.Attr{slog.String("service", cfg.service)}, attrs...)
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record, the default for
// components whose callers did not attach one.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
