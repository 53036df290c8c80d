package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"project-launchpad/internal/config"
	"project-launchpad/internal/logger"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestContextHandler(t *testing.T) {
	opts := logger.Options{Env: "prod", Service: "project-launchpad", Version: "1.2.0"}

	t.Run("AddsTraceAndSpanIDs", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, opts)

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

		log.InfoContext(ctx, "submitting application")

		line := decodeLine(t, &buf)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
	})

	t.Run("AddsRequestID", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, opts)

		ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-42")
		log.InfoContext(ctx, "listing projects")

		assert.Equal(t, "req-42", decodeLine(t, &buf)["request_id"])
	})

	t.Run("NoSpanInContext", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, opts)

		log.InfoContext(context.Background(), "listing companies")

		line := decodeLine(t, &buf)
		assert.Equal(t, "listing companies", line["msg"])
		assert.NotContains(t, line, "trace_id")
		assert.NotContains(t, line, "request_id")
	})

	t.Run("ServiceAttributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger.New(&buf, opts).Info("started")

		line := decodeLine(t, &buf)
		assert.Equal(t, "project-launchpad", line["service"])
		assert.Equal(t, "1.2.0", line["version"])
		assert.Equal(t, "prod", line["environment"])
	})
}

func TestNew(t *testing.T) {
	t.Run("JSONOutsideLocal", func(t *testing.T) {
		var buf bytes.Buffer
		logger.New(&buf, logger.Options{Env: "staging"}).Info("ready")

		assert.True(t, json.Valid(buf.Bytes()))
	})

	t.Run("TextForLocal", func(t *testing.T) {
		var buf bytes.Buffer
		logger.New(&buf, logger.Options{Env: "local"}).Info("ready")

		assert.False(t, json.Valid(buf.Bytes()))
		assert.Contains(t, buf.String(), "msg=ready")
	})

	t.Run("ExplicitFormatWins", func(t *testing.T) {
		var buf bytes.Buffer
		logger.New(&buf, logger.Options{Env: "local", Format: logger.FormatJSON}).Info("ready")

		assert.True(t, json.Valid(buf.Bytes()))
	})

	t.Run("LevelFiltersBelow", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(&buf, logger.Options{Env: "prod", Level: "warn"})

		log.Info("hidden")
		assert.Zero(t, buf.Len())

		log.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("FromConfigUsesLogSection", func(t *testing.T) {
		cfg := &config.Config{Env: "prod", Log: config.LogConfig{Level: "debug"}}
		log := logger.FromConfig(cfg, "project-launchpad", "dev")

		assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}
