// Package confirmphone implements the HTTP handler that confirms a phone
// binding by its confirmation token.
package confirmphone

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-service/internal/http/response"
	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/storage/repository"
)

type Service interface {
	ConfirmPhone(ctx context.Context, token string) error
}

// Handler handles phone confirmation requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a confirmphone Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Confirm phone number
// @Description Marks the phone binding carrying the token as confirmed.
// @Tags Auth
// @Produce  json
// @Param token path string true "Confirmation token"
// @Success 200 {object} map[string]any "Phone confirmed"
// @Failure 404 {object} response.ErrorResponse "Unknown token"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /confirm/phone/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirmphone"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		log.Error("missing confirmation token")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing confirmation token"))
		return
	}

	if err := h.service.ConfirmPhone(r.Context(), token); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			log.Error("unknown confirmation token")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown confirmation token"))
			return
		}
		log.Error("failed to confirm phone", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm phone"))
		return
	}

	log.Info("phone confirmed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "phone confirmed",
	}))
}
