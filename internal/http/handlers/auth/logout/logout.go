// Package logout реализует HTTP-обработчик завершения сессии.
//
// Сессия удаляется из хранилища, cookie сбрасывается. Отсутствие сессии
// ошибкой не считается: ответ всегда успешный.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/config"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
)

// Response — структура ответа выхода.
type Response struct {
	Success bool `json:"success"`
}

// Handler обрабатывает HTTP-запросы завершения сессии.
type Handler struct {
	log      *slog.Logger    // Логгер для записи операций и ошибок
	sessions session.Manager // Хранилище сессий
	cookie   config.Session  // Настройки cookie сессии
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, sessions session.Manager, cookie config.Session) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		cookie:   cookie,
	}
}

// ServeHTTP godoc
// @Summary Завершить сессию
// @Description Удаляет серверную сессию и сбрасывает cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} Response "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(h.cookie.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Warn("failed to delete session", sl.Err(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("logout success")
	render.JSON(w, r, Response{Success: true})
}
