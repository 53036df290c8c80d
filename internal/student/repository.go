package student

import (
	"context"
	"database/sql"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const table = "students"

// upsertColumns are overwritten when an insert collides on email.
var upsertColumns = []string{"name", "phone", "university", "degree", "graduation_year"}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Student, error)
	Create(ctx context.Context, student *Student) (*Student, error)
	Update(ctx context.Context, student *Student) (*Student, error)
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

// FindByEmail matches email exactly. No row is apperr.ErrNotFound.
func (r *repository) FindByEmail(ctx context.Context, email string) (*Student, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().
		Model(student).
		Where("s.email = ?", email).
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Read(table, err)
	}
	return student, nil
}

// Create inserts student. A concurrent insert of the same email turns into
// an update of the existing row, whose id is returned.
func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	q := r.db.NewInsert().
		Model(student).
		On("CONFLICT (email) DO UPDATE")
	for _, col := range upsertColumns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}

	start := time.Now()
	_, err := q.Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Write("insert", table, err)
	}
	return student, nil
}

// Update overwrites every provided field of the row with student's id.
func (r *repository) Update(ctx context.Context, student *Student) (*Student, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(student).
		Column(append([]string{"email"}, upsertColumns...)...).
		WherePK().
		Returning("*").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)

	if err != nil {
		return nil, apperr.Write("update", table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperr.Write("update", table, err)
	}
	if rowsAffected == 0 {
		return nil, apperr.Write("update", table, sql.ErrNoRows)
	}
	return student, nil
}
