package student_test

import (
	"context"
	"testing"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/metrics"
	"project-launchpad/internal/schema"
	"project-launchpad/internal/student"
	"project-launchpad/testing/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ana() *student.Student {
	phone := "555-0100"
	return &student.Student{
		Name:           "Ana",
		Email:          "ana@u.edu",
		Phone:          &phone,
		University:     "State U",
		Degree:         "BSc CS",
		GraduationYear: 2025,
	}
}

func TestStudentRepository(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	ctx := context.Background()
	repo := student.NewRepository(pgContainer.DB, metrics.NewMock(), 5*time.Second)

	t.Run("FindByEmail_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.Tables...)

		_, err := repo.FindByEmail(ctx, "nobody@u.edu")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.NotErrorIs(t, err, apperr.ErrRemoteRead)
	})

	t.Run("FindByEmail_IsExact", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.Tables...)

		_, err := repo.Create(ctx, ana())
		require.NoError(t, err)

		_, err = repo.FindByEmail(ctx, "ANA@u.edu")
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		found, err := repo.FindByEmail(ctx, "ana@u.edu")
		require.NoError(t, err)
		assert.Equal(t, "Ana", found.Name)
		assert.Equal(t, 2025, found.GraduationYear)
	})

	t.Run("Create_DuplicateEmailUpdatesExistingRow", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.Tables...)

		first, err := repo.Create(ctx, ana())
		require.NoError(t, err)

		again := ana()
		again.Degree = "MSc CS"
		second, err := repo.Create(ctx, again)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "MSc CS", second.Degree)

		count, err := pgContainer.DB.NewSelect().Model((*student.Student)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Update_OverwritesFieldsAndTouchesUpdatedAt", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.Tables...)

		created, err := repo.Create(ctx, ana())
		require.NoError(t, err)

		phone := "555-0199"
		changed := ana()
		changed.ID = created.ID
		changed.Phone = &phone

		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)

		require.NotNil(t, updated.Phone)
		assert.Equal(t, "555-0199", *updated.Phone)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("Update_UnknownID", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.Tables...)

		ghost := ana()
		ghost.ID = uuid.New()

		_, err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, apperr.ErrRemoteWrite)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
