// Package catalog serves the category and subscription-type reference data,
// caching reads since the data only changes at seed time.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/models"
)

const (
	categoriesCacheKey = "catalog:categories"
	typesCacheKey      = "catalog:subscription_types"
	cacheTTL           = time.Hour
)

// CatalogRepository describes the catalog reads served from the store.
type CatalogRepository interface {
	// ListCategories returns all membership categories.
	ListCategories(ctx context.Context) ([]*models.Category, error)
	// ListSubscriptionTypes returns all subscription tiers.
	ListSubscriptionTypes(ctx context.Context) ([]*models.SubscriptionType, error)
}

// Cache describes the cache operations the service uses.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service serves catalog reads through the cache.
type Service struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// New creates a catalog Service.
func New(repo CatalogRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Categories returns all categories, from cache when possible.
func (s *Service) Categories(ctx context.Context) ([]*models.Category, error) {
	var cached []*models.Category
	found, err := s.cache.Get(categoriesCacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(categoriesCacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache categories", sl.Err(err))
	}
	return result, nil
}

// SubscriptionTypes returns all subscription tiers, from cache when
// possible.
func (s *Service) SubscriptionTypes(ctx context.Context) ([]*models.SubscriptionType, error) {
	var cached []*models.SubscriptionType
	found, err := s.cache.Get(typesCacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListSubscriptionTypes(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(typesCacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache subscription types", sl.Err(err))
	}
	return result, nil
}
