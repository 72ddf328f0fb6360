package confirmemail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-service/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ConfirmEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestConfirmEmailHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		mockErr        error
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:           "confirmed",
			token:          "9f2c7a34-1111-2222-3333-444455556666",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "unknown token",
			token:          "deadbeef-0000-0000-0000-000000000000",
			mockErr:        repository.ErrTokenNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
		},
		{
			name:           "storage failure",
			token:          "9f2c7a34-1111-2222-3333-444455556666",
			mockErr:        errors.New("storage.ConfirmEmailByToken: connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ConfirmEmail", mock.Anything, tt.token).Return(tt.mockErr).Once()

			router := chi.NewRouter()
			router.Get("/confirm/email/{token}", New(newNoopLogger(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, "/confirm/email/"+tt.token, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			svc.AssertExpectations(t)
		})
	}
}
