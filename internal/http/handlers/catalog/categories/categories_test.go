package categories

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Categories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*models.Category)
	return items, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCategoriesHandler_ServeHTTP(t *testing.T) {
	t.Run("lists categories", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Categories", mock.Anything).Return([]*models.Category{
			{ID: 1, Name: "general"},
			{ID: 2, Name: "student"},
		}, nil).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/categories", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])

		data := got["data"].(map[string]any)
		items := data["categories"].([]any)
		assert.Len(t, items, 2)
		assert.Equal(t, "general", items[0].(map[string]any)["name"])

		svc.AssertExpectations(t)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Categories", mock.Anything).Return(nil, errors.New("storage.ListCategories: connection refused")).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/categories", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		svc.AssertExpectations(t)
	})
}
