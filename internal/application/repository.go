package application

import (
	"context"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const table = "applications"

type Repository interface {
	Create(ctx context.Context, application *Application) (*Application, error)
	List(ctx context.Context, opts ListOptions) ([]Application, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewRepository(db *bun.DB, m *metrics.Metrics, timeout time.Duration) Repository {
	return &repository{
		db:      db,
		metrics: m,
		timeout: timeout,
	}
}

// Create inserts application. Unknown student or project ids surface as a
// write error that also matches apperr.ErrNotFound.
func (r *repository) Create(ctx context.Context, application *Application) (*Application, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}

	start := time.Now()
	_, err := r.db.NewInsert().Model(application).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Write("insert", table, err)
	}
	return application, nil
}

// List with Embed set attaches the student and project of each row.
func (r *repository) List(ctx context.Context, opts ListOptions) ([]Application, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	applications := make([]Application, 0)
	q := r.db.NewSelect().Model(&applications)
	if opts.Embed {
		q = q.Relation("Student").Relation("Project")
	}
	if opts.NewestFirst {
		q = q.Order("a.created_at DESC")
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Read(table, err)
	}
	return applications, nil
}
