package company

import (
	"context"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const table = "companies"

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Company, error)
	Create(ctx context.Context, company *Company) (*Company, error)
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

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Company, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	companies := make([]Company, 0)
	q := r.db.NewSelect().Model(&companies)
	if opts.NewestFirst {
		q = q.Order("c.created_at DESC")
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Read(table, err)
	}
	return companies, nil
}

func (r *repository) Create(ctx context.Context, company *Company) (*Company, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}

	start := time.Now()
	_, err := r.db.NewInsert().Model(company).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Write("insert", table, err)
	}
	return company, nil
}
