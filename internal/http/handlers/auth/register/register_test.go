package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-service/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*models.RegistrationResult)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() Request {
	return Request{
		FirstName:  "Ion",
		LastName:   "Popescu",
		Password:   "parola1234",
		Email:      "ion.popescu@example.com",
		Phone:      "069123456",
		DeviceName: "card",
		DeviceSN:   "12345678901",
		BirthDate:  "1990-04-15",
	}
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	successResult := &models.RegistrationResult{
		Type: models.ResultTypeSuccess,
		Data: &models.RegistrationData{
			UserID:  7,
			Email:   "ion.popescu@example.com",
			EmailID: 3,
			PhoneID: 4,
		},
	}

	rejectedFields := models.FieldReport{}
	rejectedFields.Set(models.FieldEmail, models.CodeInUse, "Email address already used")
	rejectedFields.Set(models.FieldPhone, models.CodeAvailable, "")
	rejectedResult := &models.RegistrationResult{
		Type:   models.ResultTypeError,
		Fields: rejectedFields,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResult     *models.RegistrationResult
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid registration",
			requestBody:    validRequest(),
			mockResult:     successResult,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name: "validation error - missing password",
			requestBody: func() Request {
				req := validRequest()
				req.Password = ""
				return req
			}(),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name:           "field conflict reported per field",
			requestBody:    validRequest(),
			mockResult:     rejectedResult,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			requestBody:    validRequest(),
			mockErr:        errors.New("storage.BeginRegistration: connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.mockResult != nil || tt.mockErr != nil {
				svc.On("Register", mock.Anything, mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), svc)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.name == "valid registration" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(7), data["user_id"])
				assert.Equal(t, "ion.popescu@example.com", data["email_address"])
			}

			if tt.name == "field conflict reported per field" {
				fields, ok := got["fields"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(models.CodeInUse), fields["email_error"])
				assert.Equal(t, "Email address already used", fields["email_message"])
				assert.Equal(t, float64(models.CodeAvailable), fields["phone_error"])
			}

			svc.AssertExpectations(t)
		})
	}
}
