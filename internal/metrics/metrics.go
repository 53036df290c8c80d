package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics
	Health   *HealthMetrics

	applicationsSubmitted metric.Int64Counter
	studentsCreated       metric.Int64Counter
	studentsUpdated       metric.Int64Counter
	companiesCreated      metric.Int64Counter
	projectsCreated       metric.Int64Counter
	cacheHits             metric.Int64Counter
	cacheMisses           metric.Int64Counter
	eventsPublished       metric.Int64Counter
	eventsFailed          metric.Int64Counter
	publishDuration       metric.Float64Histogram
}

func New(meter metric.Meter) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{Database: database, Health: health}

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&m.applicationsSubmitted, "launchpad.applications.submitted", "Total number of applications submitted", "{application}"},
		{&m.studentsCreated, "launchpad.students.created", "Students created on first application", "{student}"},
		{&m.studentsUpdated, "launchpad.students.updated", "Students updated in place on a repeat application", "{student}"},
		{&m.companiesCreated, "launchpad.companies.created", "Total number of companies created", "{company}"},
		{&m.projectsCreated, "launchpad.projects.created", "Total number of projects created", "{project}"},
		{&m.cacheHits, "launchpad.cache.hits", "Query results served from cache", "{hit}"},
		{&m.cacheMisses, "launchpad.cache.misses", "Query results fetched from the database", "{miss}"},
		{&m.eventsPublished, "launchpad.events.published", "Application events handed to the broker", "{event}"},
		{&m.eventsFailed, "launchpad.events.failed", "Application events that could not be published", "{event}"},
	}

	for _, c := range counters {
		*c.target, err = meter.Int64Counter(
			c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return nil, err
		}
	}

	// Buckets: 100µs, 500µs, 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s
	m.publishDuration, err = meter.Float64Histogram(
		"launchpad.events.publish_duration",
		metric.WithDescription("Time spent publishing an application event"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025,
			0.05, 0.1, 0.25, 0.5, 1.0,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordApplicationSubmitted(ctx context.Context) {
	if m != nil && m.applicationsSubmitted != nil {
		m.applicationsSubmitted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentCreated(ctx context.Context) {
	if m != nil && m.studentsCreated != nil {
		m.studentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentUpdated(ctx context.Context) {
	if m != nil && m.studentsUpdated != nil {
		m.studentsUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCompanyCreated(ctx context.Context) {
	if m != nil && m.companiesCreated != nil {
		m.companiesCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordProjectCreated(ctx context.Context) {
	if m != nil && m.projectsCreated != nil {
		m.projectsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCacheHit(ctx context.Context, entity string) {
	if m != nil && m.cacheHits != nil {
		m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *Metrics) RecordCacheMiss(ctx context.Context, entity string) {
	if m != nil && m.cacheMisses != nil {
		m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *Metrics) RecordEventPublished(ctx context.Context, duration time.Duration) {
	if m != nil && m.eventsPublished != nil {
		m.eventsPublished.Add(ctx, 1)
		m.publishDuration.Record(ctx, duration.Seconds())
	}
}

func (m *Metrics) RecordEventFailed(ctx context.Context) {
	if m != nil && m.eventsFailed != nil {
		m.eventsFailed.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{Database: &DatabaseMetrics{}, Health: &HealthMetrics{}}
}
