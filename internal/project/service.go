package project

import (
	"context"
	"log/slog"
	"time"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/cache"
	"project-launchpad/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	allKey  = cache.Key{Entity: cache.Projects, Filter: "embed=company;order=created_at.desc"}
	openKey = cache.Key{Entity: cache.Projects, Filter: "embed=company;status=open;order=created_at.desc"}
)

type Service interface {
	ListProjects(ctx context.Context, openOnly bool) ([]Project, error)
	AddProject(ctx context.Context, input ProjectInput) (*Project, error)
}

type service struct {
	repo     Repository
	cache    *cache.Cache
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(repo Repository, c *cache.Cache, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:     repo,
		cache:    c,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

// ListProjects returns projects newest first with their company attached.
// With openOnly set only projects whose status is exactly "open" are returned.
func (s *service) ListProjects(ctx context.Context, openOnly bool) ([]Project, error) {
	key := allKey
	if openOnly {
		key = openKey
	}
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]Project, error) {
		return s.repo.List(ctx, ListOptions{
			OpenOnly:     openOnly,
			NewestFirst:  true,
			EmbedCompany: true,
		})
	})
}

func (s *service) AddProject(ctx context.Context, input ProjectInput) (*Project, error) {
	if err := apperr.Struct(s.validate, input); err != nil {
		return nil, err
	}

	companyID, err := uuid.Parse(input.CompanyID)
	if err != nil {
		return nil, apperr.Validation("CompanyID", "not a uuid: %q", input.CompanyID)
	}
	startDate, err := parseDate("StartDate", input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("EndDate", input.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, apperr.Validation("EndDate", "before start date")
	}

	status := input.Status
	if status == "" {
		status = StatusOpen
	}

	created, err := s.repo.Create(ctx, &Project{
		CompanyID:    companyID,
		Title:        input.Title,
		Description:  input.Description,
		Requirements: input.Requirements,
		Duration:     input.Duration,
		Stipend:      input.Stipend,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.Projects)
	s.metrics.RecordProjectCreated(ctx)
	s.logger.InfoContext(ctx, "project created", "project_id", created.ID, "company_id", created.CompanyID)

	return created, nil
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, apperr.Validation(field, "expected YYYY-MM-DD, got %q", value)
	}
	return &d, nil
}
