// Package schema lists the tables of the service in creation order.
package schema

import (
	"context"

	"project-launchpad/internal/application"
	"project-launchpad/internal/company"
	"project-launchpad/internal/db"
	"project-launchpad/internal/project"
	"project-launchpad/internal/student"

	"github.com/uptrace/bun"
)

// Tables in truncate-safe order for tests, children first.
var Tables = []string{"applications", "students", "projects", "companies"}

// Models returns the table models with parents before children.
func Models() []interface{} {
	return []interface{}{
		(*company.Company)(nil),
		(*project.Project)(nil),
		(*student.Student)(nil),
		(*application.Application)(nil),
	}
}

func Migrate(ctx context.Context, database *bun.DB) error {
	return db.RunMigrations(ctx, database, Models()...)
}
