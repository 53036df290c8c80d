package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"project-launchpad/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DefaultQueryTimeout bounds every repository round trip when the config leaves it unset.
const DefaultQueryTimeout = 5 * time.Second

func New(cfg config.DatabaseConfig) (*bun.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		sslMode,
	)

	db, err := NewWithDSN(dsn)
	if err != nil {
		return nil, err
	}
	configurePool(db, cfg)
	return db, nil
}

// NewWithDSN creates a new database connection with a custom DSN (useful for testing)
func NewWithDSN(dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected successfully")
	return db, nil
}

func QueryTimeout(cfg config.DatabaseConfig) time.Duration {
	if cfg.QueryTimeout <= 0 {
		return DefaultQueryTimeout
	}
	return time.Duration(cfg.QueryTimeout) * time.Second
}

func configurePool(db *bun.DB, cfg config.DatabaseConfig) {
	sqlDB := db.DB

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	sqlDB.SetMaxOpenConns(maxOpen)

	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 10
	}
	sqlDB.SetMaxIdleConns(maxIdle)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = 300
	}
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 60
	}
	sqlDB.SetConnMaxIdleTime(time.Duration(connMaxIdleTime) * time.Second)

	slog.Info("database pool configured",
		"max_open_conns", maxOpen,
		"max_idle_conns", maxIdle,
		"conn_max_lifetime_seconds", connMaxLifetime,
		"conn_max_idle_time_seconds", connMaxIdleTime,
	)
}

func Close(db *bun.DB) {
	if db != nil {
		db.Close()
	}
}

// schemaStatements run after table creation. Check constraints and the
// updated_at trigger are not expressible in bun struct tags.
var schemaStatements = []string{
	`CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = CURRENT_TIMESTAMP;
		RETURN NEW;
	END;
	$$ language 'plpgsql';`,
	`DROP TRIGGER IF EXISTS update_students_updated_at ON students;
	CREATE TRIGGER update_students_updated_at
		BEFORE UPDATE ON students
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
	`ALTER TABLE projects DROP CONSTRAINT IF EXISTS projects_status_check;
	ALTER TABLE projects ADD CONSTRAINT projects_status_check CHECK (status IN ('open', 'closed', 'filled'));`,
	`ALTER TABLE projects DROP CONSTRAINT IF EXISTS projects_stipend_check;
	ALTER TABLE projects ADD CONSTRAINT projects_stipend_check CHECK (stipend IS NULL OR stipend >= 0);`,
	`CREATE INDEX IF NOT EXISTS projects_company_id_idx ON projects (company_id);`,
	`CREATE INDEX IF NOT EXISTS applications_student_id_idx ON applications (student_id);`,
	`CREATE INDEX IF NOT EXISTS applications_project_id_idx ON applications (project_id);`,
}

// RunMigrations creates the tables of models in order, with foreign keys
// taken from their belongs-to relations, then applies the schema extras.
// Parents must come before children.
func RunMigrations(ctx context.Context, db *bun.DB, models ...interface{}) error {
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model: %w", err)
		}
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	slog.Info("database migrations completed successfully")
	return nil
}
