package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

const (
	categoryCacheTTL     = 5 * time.Minute
	cacheCleanupInterval = 15 * time.Minute
)

// Service answers directory queries over the provider store. The store is
// read-only from here; population and refresh belong to the upstream data
// source. Category lookups are cached because the browse screens hammer
// them on every render.
type Service struct {
	repo  repository.ProviderRepository
	cache *cache.Cache
}

func NewService(repo repository.ProviderRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(categoryCacheTTL, cacheCleanupInterval),
	}
}

// FindByCategory returns all providers whose category equals the tag.
// No match is an empty slice, not an error.
func (s *Service) FindByCategory(ctx context.Context, category string) ([]*model.Provider, error) {
	if category == "" {
		return []*model.Provider{}, nil
	}

	key := "category:" + category
	if cached, found := s.cache.Get(key); found {
		return cached.([]*model.Provider), nil
	}

	providers, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to find providers by category: %w", err)
	}

	s.cache.Set(key, providers, cache.DefaultExpiration)
	return providers, nil
}

// Search runs a case-insensitive substring match over name, category and
// specialties. An empty query returns the full directory.
func (s *Service) Search(ctx context.Context, query string) ([]*model.Provider, error) {
	if query == "" {
		providers, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list providers: %w", err)
		}
		return providers, nil
	}

	providers, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}
	return providers, nil
}

// Get resolves a single provider by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	return s.repo.Get(ctx, id)
}

// GroupByCategory buckets providers by category for the sectioned browse
// screen. Only records with role "provider" are included; consumers and
// staff records from the shared directory are a domain exclusion here,
// not a display choice.
func (s *Service) GroupByCategory(providers []*model.Provider) map[string][]*model.Provider {
	grouped := make(map[string][]*model.Provider)
	for _, p := range providers {
		if p.Role != model.RoleProvider {
			continue
		}
		grouped[p.Category] = append(grouped[p.Category], p)
	}
	return grouped
}

// InvalidateCategory drops the cached result for a category, for callers
// that know the upstream directory changed.
func (s *Service) InvalidateCategory(category string) {
	s.cache.Delete("category:" + category)
}
