package project

import (
	"context"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const table = "projects"

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Project, error)
	Create(ctx context.Context, project *Project) (*Project, error)
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

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	projects := make([]Project, 0)
	q := r.db.NewSelect().Model(&projects)
	if opts.EmbedCompany {
		q = q.Relation("Company")
	}
	if opts.OpenOnly {
		q = q.Where("p.status = ?", StatusOpen)
	}
	if opts.NewestFirst {
		q = q.Order("p.created_at DESC")
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Read(table, err)
	}
	return projects, nil
}

func (r *repository) Create(ctx context.Context, project *Project) (*Project, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.Status == "" {
		project.Status = StatusOpen
	}

	start := time.Now()
	_, err := r.db.NewInsert().Model(project).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Write("insert", table, err)
	}
	return project, nil
}
