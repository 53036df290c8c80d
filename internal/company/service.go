package company

import (
	"context"
	"log/slog"

	"project-launchpad/internal/apperr"
	"project-launchpad/internal/cache"
	"project-launchpad/internal/metrics"

	"github.com/go-playground/validator/v10"
)

var listKey = cache.Key{Entity: cache.Companies, Filter: "order=created_at.desc"}

type Service interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	AddCompany(ctx context.Context, input CompanyInput) (*Company, error)
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

// ListCompanies returns every company, newest first.
func (s *service) ListCompanies(ctx context.Context) ([]Company, error) {
	return cache.Fetch(ctx, s.cache, listKey, func(ctx context.Context) ([]Company, error) {
		return s.repo.List(ctx, ListOptions{NewestFirst: true})
	})
}

func (s *service) AddCompany(ctx context.Context, input CompanyInput) (*Company, error) {
	if err := apperr.Struct(s.validate, input); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Company{
		Name:        input.Name,
		Industry:    input.Industry,
		Location:    input.Location,
		Description: input.Description,
		Website:     input.Website,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.Companies)
	s.metrics.RecordCompanyCreated(ctx)
	s.logger.InfoContext(ctx, "company created", "company_id", created.ID, "name", created.Name)

	return created, nil
}
