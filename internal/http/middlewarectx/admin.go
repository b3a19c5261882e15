package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/response"
)

// AdminKeyHeader — заголовок с административным секретом.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware возвращает HTTP middleware, который сверяет заголовок
// X-Admin-Key с настроенным секретом. При несовпадении возвращает 401,
// не раскрывая никакой информации о пользователях.
func AdminKeyMiddleware(adminKey string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminKeyMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			key := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				log.Error("bad or missing admin key")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
