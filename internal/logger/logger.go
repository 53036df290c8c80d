// Package logger builds the service's slog.Logger from configuration.
//
// Every record logged with a context picks up the OTel trace and span IDs
// and the chi request ID when they are present.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"project-launchpad/internal/config"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

type Options struct {
	Env     string
	Level   string
	Format  string
	Service string
	Version string
}

// FromConfig returns the process logger for cfg, writing to stdout.
func FromConfig(cfg *config.Config, service, version string) *slog.Logger {
	return New(os.Stdout, Options{
		Env:     cfg.Env,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: service,
		Version: version,
	})
}

func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if resolveFormat(opts) == FormatText {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handlerOpts.AddSource = true
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	log := slog.New(&contextHandler{handler: handler})

	var attrs []any
	if opts.Service != "" {
		attrs = append(attrs, slog.String("service", opts.Service))
	}
	if opts.Version != "" {
		attrs = append(attrs, slog.String("version", opts.Version))
	}
	if opts.Env != "" {
		attrs = append(attrs, slog.String("environment", opts.Env))
	}
	if len(attrs) > 0 {
		log = log.With(attrs...)
	}
	return log
}

// ParseLevel maps a config level name to a slog level. Unknown names are Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveFormat(opts Options) string {
	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		return FormatJSON
	case FormatText:
		return FormatText
	}
	if opts.Env == "local" || opts.Env == "test" {
		return FormatText
	}
	return FormatJSON
}

type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("request_id", reqID))
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}

// Discard returns a logger for tests that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
