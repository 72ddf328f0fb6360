// Package subscriptiontypes implements the HTTP handler listing the
// subscription type catalog.
package subscriptiontypes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-service/internal/http/response"
	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/models"
)

type Service interface {
	SubscriptionTypes(ctx context.Context) ([]*models.SubscriptionType, error)
}

// Handler handles subscription type listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a subscriptiontypes Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List subscription types
// @Tags Catalog
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Subscription type list"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /catalog/subscription-types [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.subscriptiontypes"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.SubscriptionTypes(r.Context())
	if err != nil {
		log.Error("failed to list subscription types", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subscription types"))
		return
	}

	log.Info("subscription types listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_types": items,
	}))
}
