package application

import (
	"context"

	"project-launchpad/internal/cache"
	"project-launchpad/internal/student"
)

var listKey = cache.Key{Entity: cache.Applications, Filter: "embed=student,project;order=created_at.desc"}

type Service interface {
	SubmitApplication(ctx context.Context, studentIn student.StudentInput, appIn ApplicationInput) (*Application, error)
	ListApplications(ctx context.Context) ([]Application, error)
}

type service struct {
	repo     Repository
	workflow *Workflow
	cache    *cache.Cache
}

func NewService(repo Repository, workflow *Workflow, c *cache.Cache) Service {
	return &service{
		repo:     repo,
		workflow: workflow,
		cache:    c,
	}
}

func (s *service) SubmitApplication(ctx context.Context, studentIn student.StudentInput, appIn ApplicationInput) (*Application, error) {
	return s.workflow.Submit(ctx, studentIn, appIn)
}

// ListApplications returns every application newest first, with student
// and project attached. The entry depends on student rows too, and the
// workflow invalidates both entity types.
func (s *service) ListApplications(ctx context.Context) ([]Application, error) {
	return cache.Fetch(ctx, s.cache, listKey, func(ctx context.Context) ([]Application, error) {
		return s.repo.List(ctx, ListOptions{NewestFirst: true, Embed: true})
	})
}
