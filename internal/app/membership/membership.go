// Package membership assembles the HTTP service: storage, migrations,
// cache, event broker, services and the router.
package membership

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-service/internal/cache"
	"github.com/magabrotheeeer/membership-service/internal/config"
	customjwt "github.com/magabrotheeeer/membership-service/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-service/internal/lib/sl"
	"github.com/magabrotheeeer/membership-service/internal/migrations"
	"github.com/magabrotheeeer/membership-service/internal/rabbitmq"
	services "github.com/magabrotheeeer/membership-service/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/membership-service/internal/services/catalog"
	regservice "github.com/magabrotheeeer/membership-service/internal/services/registration"
	"github.com/magabrotheeeer/membership-service/internal/storage/repository"
)

// Unconfirmed users are purged on this cadence.
const (
	cleanupInterval = 1 * time.Hour
	cleanupCutoff   = 24 * time.Hour
)

// registrationStore adapts the concrete repository to the registration
// service's transactional interface.
type registrationStore struct {
	db *repository.Storage
}

func (s registrationStore) BeginRegistration(ctx context.Context) (regservice.TxOps, error) {
	return s.db.BeginRegistration(ctx)
}

type App struct {
	server      *http.Server
	logger      *slog.Logger
	db          *repository.Storage
	authService *services.AuthService
	amqpConn    *amqp.Connection
	amqpChannel *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = db.SeedCatalog(ctx); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{rabbitmq.ConfirmationQueue})
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := customjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	registrationService := regservice.New(logger, registrationStore{db: db}, publisher, cfg.BcryptCost)
	authService := services.NewAuthService(db, jwtMaker)
	catalogService := catalogservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, registrationService, authService, catalogService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:      srv,
		logger:      logger,
		db:          db,
		authService: authService,
		amqpConn:    conn,
		amqpChannel: ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.amqpChannel.Close()
		a.amqpConn.Close()
		a.db.DB.Close()
		return err
	}
}

// cleanupLoop periodically removes users that never confirmed their email.
func (a *App) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.authService.RemoveUnconfirmed(ctx, cleanupCutoff)
			if err != nil {
				a.logger.Error("failed to remove unconfirmed users", sl.Err(err))
				continue
			}
			if removed > 0 {
				a.logger.Info("removed unconfirmed users", slog.Int64("count", removed))
			}
		}
	}
}
