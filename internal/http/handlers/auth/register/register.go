// Package register implements the HTTP handler for user registration.
//
// It decodes the request body, checks required fields and delegates to the
// registration service. The body of a rejected registration carries a
// per-field report: for every field a <field>_error code (0 — available,
// 1 — in use, 2 — invalid) and a <field>_message text.
package register

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-service/internal/http/response"
	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/models"
)

// Request is the registration input. Content rules for email, phone,
// device serial, names and password are checked by the service, which
// reports them per field instead of failing the request wholesale.
type Request struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	DeviceName string `json:"device_name" validate:"required"`
	DeviceSN   string `json:"device_sn" validate:"required"`
	BirthDate  string `json:"birth_date,omitempty" validate:"omitempty"`
}

// Handler handles HTTP registration requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a registration Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Register a new user
// @Description Validates all fields, checks that email, phone and device serial are not actively bound to another user, then creates the user with its three identity bindings atomically.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Registration fields"
// @Success 200 {object} map[string]any "User created"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 422 {object} map[string]any "Per-field report with error codes"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Register(r.Context(), models.RegistrationRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   req.Password,
		Email:      req.Email,
		Phone:      req.Phone,
		DeviceName: req.DeviceName,
		DeviceSN:   req.DeviceSN,
		BirthDate:  req.BirthDate,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	if result.Type == models.ResultTypeError {
		log.Info("registration rejected", slog.Any("fields", result.Fields))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"status": response.StatusError,
			"type":   result.Type,
			"fields": result.Fields.Flatten(),
		})
		return
	}

	log.Info("user registered", slog.Int64("user_id", result.Data.UserID))
	render.JSON(w, r, response.StatusOKWithData(result.Data))
}
