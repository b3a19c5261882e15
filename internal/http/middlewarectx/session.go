// Package middlewarectx содержит HTTP middleware аутентификации запросов.
//
// SessionMiddleware извлекает токен сессии из cookie, загружает сессию
// из хранилища и кладет email и имя пользователя в контекст запроса.
// AdminKeyMiddleware проверяет административный секрет в заголовке X-Admin-Key.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Email — ключ для электронной почты пользователя в контексте
	Email Key = "email"
	// Name — ключ для отображаемого имени пользователя в контексте
	Name Key = "name"
)

// unauthenticated — форма ответа 401 для проверки сессии.
type unauthenticated struct {
	Authenticated bool `json:"authenticated"`
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессию из cookie.
//
// Если сессия найдена, добавляет email и имя пользователя в контекст запроса,
// иначе возвращает HTTP 401 с телом {"authenticated": false}.
func SessionMiddleware(sessions session.Manager, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				log.Info("no session cookie")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, unauthenticated{Authenticated: false})
				return
			}

			identity, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					log.Error("failed to load session", sl.Err(err))
				}
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, unauthenticated{Authenticated: false})
				return
			}

			ctx := context.WithValue(r.Context(), Email, identity.Email)
			ctx = context.WithValue(ctx, Name, identity.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
