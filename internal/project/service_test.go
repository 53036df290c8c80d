package project_test

import (
	"context"
	"testing"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/cache"
	"project-launchpad/internal/logger"
	"project-launchpad/internal/metrics"
	"project-launchpad/internal/project"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	rows      []project.Project
	listCalls []project.ListOptions
	created   []*project.Project
}

func (f *fakeRepository) List(_ context.Context, opts project.ListOptions) ([]project.Project, error) {
	f.listCalls = append(f.listCalls, opts)
	var out []project.Project
	for _, p := range f.rows {
		if opts.OpenOnly && p.Status != project.StatusOpen {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepository) Create(_ context.Context, p *project.Project) (*project.Project, error) {
	p.ID = uuid.New()
	f.created = append(f.created, p)
	f.rows = append(f.rows, *p)
	return p, nil
}

func newService(repo project.Repository) project.Service {
	log := logger.Discard()
	m := metrics.NewMock()
	return project.NewService(repo, cache.New(cache.NewMemoryBackend(0), log, m), log, m)
}

func TestProjectService(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("ListProjects_RequestsEmbedAndOrder", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := newService(repo)

		_, err := svc.ListProjects(ctx, true)
		require.NoError(t, err)

		require.Len(t, repo.listCalls, 1)
		assert.Equal(t, project.ListOptions{OpenOnly: true, NewestFirst: true, EmbedCompany: true}, repo.listCalls[0])
	})

	t.Run("ListProjects_FiltersCachedSeparately", func(t *testing.T) {
		repo := &fakeRepository{rows: []project.Project{
			{Title: "A", Status: project.StatusOpen},
			{Title: "B", Status: project.StatusClosed},
		}}
		svc := newService(repo)

		open, err := svc.ListProjects(ctx, true)
		require.NoError(t, err)
		all, err := svc.ListProjects(ctx, false)
		require.NoError(t, err)
		_, err = svc.ListProjects(ctx, true)
		require.NoError(t, err)

		assert.Len(t, open, 1)
		assert.Len(t, all, 2)
		assert.Len(t, repo.listCalls, 2)
	})

	t.Run("AddProject_ParsesInput", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := newService(repo)
		stipend := 0.0

		created, err := svc.AddProject(ctx, project.ProjectInput{
			CompanyID:    companyID.String(),
			Title:        "Unpaid Research",
			Description:  "d",
			Requirements: "r",
			Duration:     "6 weeks",
			Stipend:      &stipend,
			StartDate:    "2024-06-01",
		})
		require.NoError(t, err)

		assert.Equal(t, companyID, created.CompanyID)
		assert.Equal(t, project.StatusOpen, created.Status)
		require.NotNil(t, created.StartDate)
		assert.Equal(t, 2024, created.StartDate.Year())
		assert.Nil(t, created.EndDate)
	})

	t.Run("AddProject_InvalidDateMakesNoRemoteCall", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := newService(repo)

		_, err := svc.AddProject(ctx, project.ProjectInput{
			CompanyID:    companyID.String(),
			Title:        "t",
			Description:  "d",
			Requirements: "r",
			Duration:     "1 month",
			EndDate:      "31-08-2024",
		})

		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Empty(t, repo.created)
	})

	t.Run("AddProject_InvalidatesProjects", func(t *testing.T) {
		repo := &fakeRepository{}
		svc := newService(repo)

		before, err := svc.ListProjects(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, before)

		_, err = svc.AddProject(ctx, project.ProjectInput{
			CompanyID:    companyID.String(),
			Title:        "t",
			Description:  "d",
			Requirements: "r",
			Duration:     "1 month",
		})
		require.NoError(t, err)

		after, err := svc.ListProjects(ctx, false)
		require.NoError(t, err)
		assert.Len(t, after, 1)
	})
}
