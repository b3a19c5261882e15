// Package gatekeeper собирает приложение: хранилище, сессии, движок доступа,
// маршруты HTTP и жизненный цикл сервера.
package gatekeeper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/rs/cors"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/config"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/events"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/identity"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/migrations"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/services/access"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage/memory"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и закрываемые при остановке ресурсы.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	publisher *events.AMQPPublisher
}

// New создает приложение по конфигурации.
//
// Без строки подключения к базе используется хранилище в памяти,
// без адреса Redis — сессии в памяти, без адреса RabbitMQ события
// не публикуются. Все три деградации допустимы только для демо-окружений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var store access.Store
	var db *repository.Storage
	if cfg.StorageConnectionString != "" {
		var err error
		db, err = repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		store = db
	} else {
		logger.Warn("no storage configured, using in-memory store (data is not persisted)")
		store = memory.New()
	}

	var sessions session.Manager
	if cfg.AddressRedis != "" {
		redisSessions, err := session.InitRedis(ctx, cfg.RedisConnection, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		sessions = redisSessions
	} else {
		logger.Warn("no redis configured, using in-memory sessions")
		sessions = session.NewMemory(cfg.SessionTTL)
	}

	var publisher events.Publisher = events.Noop{}
	var amqpPublisher *events.AMQPPublisher
	if cfg.AMQPConnection != "" {
		var err error
		amqpPublisher, err = events.Connect(cfg.AMQPConnection, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		publisher = amqpPublisher
	}

	verifier := identity.NewJWTVerifier(cfg.TokenSecretKey)
	accessService := access.New(store, publisher, logger, cfg.TrialWindow)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, accessService, verifier, sessions, cfg)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization", "X-Admin-Key"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		publisher: amqpPublisher,
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
		if a.db != nil {
			_ = a.db.DB.Close()
		}
		if a.publisher != nil {
			_ = a.publisher.Close()
		}
		return err
	}
}
