package membership

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/membership-service/internal/http/handlers/auth/confirmemail"
	"github.com/magabrotheeeer/membership-service/internal/http/handlers/auth/confirmphone"
	"github.com/magabrotheeeer/membership-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/membership-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/membership-service/internal/http/handlers/catalog/categories"
	"github.com/magabrotheeeer/membership-service/internal/http/handlers/catalog/subscriptiontypes"
	"github.com/magabrotheeeer/membership-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/membership-service/internal/http/middlewarectx"
	services "github.com/magabrotheeeer/membership-service/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/membership-service/internal/services/catalog"
	regservice "github.com/magabrotheeeer/membership-service/internal/services/registration"
	"github.com/magabrotheeeer/membership-service/internal/storage/repository"
)

// RegisterRoutes registers all routes of the application.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, registrationService *regservice.Service, authService *services.AuthService, catalogService *catalogservice.Service) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints, throttled against abuse
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, 5, 10))
			r.Post("/register", register.New(logger, registrationService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
			r.Get("/confirm/email/{token}", confirmemail.New(logger, authService).ServeHTTP)
			r.Get("/confirm/phone/{token}", confirmphone.New(logger, authService).ServeHTTP)
		})

		// JWT protected group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/catalog/categories", categories.New(logger, catalogService).ServeHTTP)
			r.Get("/catalog/subscription-types", subscriptiontypes.New(logger, catalogService).ServeHTTP)
		})

		r.Get("/health", health.New(logger, db).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
