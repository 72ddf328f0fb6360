// Package confirmemail implements the HTTP handler that confirms an email
// binding by its confirmation token.
package confirmemail

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
	ConfirmEmail(ctx context.Context, token string) error
}

// Handler handles email confirmation requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a confirmemail Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Confirm email address
// @Description Marks the email binding carrying the token as confirmed and activates the user.
// @Tags Auth
// @Produce  json
// @Param token path string true "Confirmation token"
// @Success 200 {object} map[string]any "Email confirmed"
// @Failure 404 {object} response.ErrorResponse "Unknown token"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /confirm/email/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirmemail"

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

	if err := h.service.ConfirmEmail(r.Context(), token); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			log.Error("unknown confirmation token")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown confirmation token"))
			return
		}
		log.Error("failed to confirm email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm email"))
		return
	}

	log.Info("email confirmed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "email confirmed",
	}))
}
