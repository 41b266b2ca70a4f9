// Package usermanagement собирает все зависимости сервиса управления
// пользователями: хранилище, миграции, кеш, брокер событий, бизнес-сервисы
// и HTTP-сервер. Кеш и брокер необязательны: их недоступность при старте
// логируется, но не мешает запуску сервиса.
package usermanagement

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/user-management-service/internal/cache"
	"github.com/magabrotheeeer/user-management-service/internal/config"
	"github.com/magabrotheeeer/user-management-service/internal/events"
	"github.com/magabrotheeeer/user-management-service/internal/lib/jwt"
	"github.com/magabrotheeeer/user-management-service/internal/lib/password"
	"github.com/magabrotheeeer/user-management-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/migrations"
	authservice "github.com/magabrotheeeer/user-management-service/internal/services/auth"
	userservice "github.com/magabrotheeeer/user-management-service/internal/services/user"
	"github.com/magabrotheeeer/user-management-service/internal/storage/repository"
)

// App агрегирует запущенные компоненты сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New инициализирует все зависимости и возвращает готовое к запуску приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	hasher := password.BcryptHasher{}

	db, err := repository.New(cfg.StorageConnectionString, hasher)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	var userCache userservice.Cache
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis is unavailable, cache disabled", sl.Err(err))
	} else {
		userCache = cacheRedis
	}

	var eventsPub userservice.EventPublisher
	var amqpConn *amqp.Connection
	if cfg.RabbitMQURL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQURL, 5, 2*time.Second)
		if err != nil {
			logger.Warn("rabbitmq is unavailable, user events disabled", sl.Err(err))
		} else {
			ch, err := rabbitmq.SetupChannel(amqpConn, []rabbitmq.QueueConfig{
				{QueueName: "user-events-audit", RoutingKey: events.TypeUserCreated},
				{QueueName: "user-events-audit", RoutingKey: events.TypeUserSoftDeleted},
				{QueueName: "user-events-audit", RoutingKey: events.TypeUserHardDeleted},
				{QueueName: "user-events-audit", RoutingKey: events.TypeUserRestored},
			})
			if err != nil {
				logger.Warn("failed to setup rabbitmq channel, user events disabled", sl.Err(err))
			} else {
				eventsPub = events.NewPublisher(ch)
			}
		}
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.Issuer, cfg.Audience, cfg.TokenTTL)

	userService := userservice.NewUserService(db, userCache, eventsPub, hasher, logger)
	authService := authservice.NewAuthService(db, jwtMaker)

	seedAdminUser(ctx, db, hasher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, userService, authService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
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
		a.db.DB.Close()
		if a.amqp != nil {
			a.amqp.Close()
		}
		return err
	}
}
