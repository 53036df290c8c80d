package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Query outcomes recorded on db.client.operation.duration.
const (
	OutcomeOK       = "ok"
	OutcomeNoRows   = "no_rows"
	OutcomeTimeout  = "timeout"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

type DatabaseMetrics struct {
	connections   metric.Int64ObservableGauge
	maxOpen       metric.Int64ObservableGauge
	waits         metric.Int64ObservableCounter
	queryDuration metric.Float64Histogram
	queryErrors   metric.Int64Counter
}

func NewDatabaseMetrics(meter metric.Meter) (*DatabaseMetrics, error) {
	dm := &DatabaseMetrics{}
	var err error

	dm.connections, err = meter.Int64ObservableGauge(
		"db.client.connections.usage",
		metric.WithDescription("Pool connections by state (idle or used)"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	dm.maxOpen, err = meter.Int64ObservableGauge(
		"db.client.connections.max",
		metric.WithDescription("Maximum number of open connections allowed"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	dm.waits, err = meter.Int64ObservableCounter(
		"db.client.connections.waits",
		metric.WithDescription("Times a query waited for a free connection"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s
	dm.queryDuration, err = meter.Float64Histogram(
		"db.client.operation.duration",
		metric.WithDescription("Repository round trip duration by outcome"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1,
			0.25, 0.5, 1.0, 2.5, 5.0,
		),
	)
	if err != nil {
		return nil, err
	}

	dm.queryErrors, err = meter.Int64Counter(
		"db.client.operation.errors",
		metric.WithDescription("Failed repository round trips by error type"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return dm, nil
}

// RegisterDB observes the pool stats of db on every collection.
func (dm *DatabaseMetrics) RegisterDB(db *sql.DB, meter metric.Meter) error {
	idle := metric.WithAttributes(attribute.String("state", "idle"))
	used := metric.WithAttributes(attribute.String("state", "used"))

	_, err := meter.RegisterCallback(
		func(ctx context.Context, observer metric.Observer) error {
			stats := db.Stats()
			observer.ObserveInt64(dm.connections, int64(stats.Idle), idle)
			observer.ObserveInt64(dm.connections, int64(stats.InUse), used)
			observer.ObserveInt64(dm.maxOpen, int64(stats.MaxOpenConnections))
			observer.ObserveInt64(dm.waits, stats.WaitCount)
			return nil
		},
		dm.connections,
		dm.maxOpen,
		dm.waits,
	)
	return err
}

// RecordQuery records one repository round trip. A lookup that finds nothing
// is a normal outcome and is not counted as an error.
func (dm *DatabaseMetrics) RecordQuery(ctx context.Context, operation string, table string, duration time.Duration, err error) {
	if dm == nil || dm.queryDuration == nil {
		return
	}

	outcome := QueryOutcome(err)
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	}

	dm.queryDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(append(attrs, attribute.String("outcome", outcome))...))

	if outcome != OutcomeOK && outcome != OutcomeNoRows {
		dm.queryErrors.Add(ctx, 1,
			metric.WithAttributes(append(attrs, attribute.String("error.type", outcome))...))
	}
}

func QueryOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, sql.ErrNoRows):
		return OutcomeNoRows
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
