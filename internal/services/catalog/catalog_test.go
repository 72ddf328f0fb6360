package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *RepoMock) ListSubscriptionTypes(ctx context.Context) ([]*models.SubscriptionType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionType), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCategories_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	want := []*models.Category{{ID: 1, Name: "general"}}
	cache.On("Get", "catalog:categories", mock.Anything).Return(false, nil).Once()
	repo.On("ListCategories", mock.Anything).Return(want, nil).Once()
	cache.On("Set", "catalog:categories", want, time.Hour).Return(nil).Once()

	svc := New(repo, cache, newNoopLogger())
	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSubscriptionTypes_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cached := []*models.SubscriptionType{{ID: 1, Name: "ST-3", Months: 3, Cost: 416}}
	cache.On("Get", "catalog:subscription_types", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(1).(*[]*models.SubscriptionType)
			*out = cached
		}).Return(true, nil).Once()

	svc := New(repo, cache, newNoopLogger())
	got, err := svc.SubscriptionTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	repo.AssertNotCalled(t, "ListSubscriptionTypes", mock.Anything)
}

func TestCategories_CacheErrorFallsThrough(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	want := []*models.Category{{ID: 1, Name: "student"}}
	cache.On("Get", "catalog:categories", mock.Anything).Return(false, assert.AnError).Once()
	repo.On("ListCategories", mock.Anything).Return(want, nil).Once()
	cache.On("Set", "catalog:categories", want, time.Hour).Return(nil).Once()

	svc := New(repo, cache, newNoopLogger())
	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
