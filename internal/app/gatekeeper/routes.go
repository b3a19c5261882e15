// Package gatekeeper предоставляет маршруты для основного приложения.
package gatekeeper

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/config"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/handlers/admin/listusers"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/handlers/admin/setsubscription"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/handlers/auth/check"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/handlers/auth/google"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/identity"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/services/access"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, accessService *access.Service, verifier identity.Verifier, sessions session.Manager, cfg *config.Config) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Get("/", health.Home())
	r.Get("/health", health.New(logger, accessService).ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/google", google.New(logger, accessService, verifier, sessions, cfg.Session).ServeHTTP)
		r.Post("/logout", logout.New(logger, sessions, cfg.Session).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(sessions, cfg.CookieName, logger))
			r.Get("/check", check.New(logger, accessService).ServeHTTP)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarectx.AdminKeyMiddleware(cfg.AdminKey, logger))
		r.Get("/users", listusers.New(logger, accessService).ServeHTTP)
		r.Post("/subscription", setsubscription.New(logger, accessService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
