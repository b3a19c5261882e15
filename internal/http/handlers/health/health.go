// Package health реализует HTTP-обработчики проверки работоспособности
// и корневой страницы сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
)

// Response — структура ответа проверки работоспособности.
type Response struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	UsersCount int       `json:"users_count"`
	Uptime     string    `json:"uptime"`
}

// Service описывает интерфейс получения диагностических счетчиков.
type Service interface {
	CountUsers(ctx context.Context) (int, error)
}

// Handler обрабатывает запросы проверки работоспособности.
type Handler struct {
	log     *slog.Logger
	service Service
	started time.Time
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		started: time.Now(),
	}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Description Возвращает статус сервиса и диагностические счетчики.
// @Tags Service
// @Produce  json
// @Success 200 {object} Response "Сервис работает"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	count, err := h.service.CountUsers(r.Context())
	if err != nil {
		h.log.With(slog.String("op", op)).Warn("failed to count users", sl.Err(err))
		count = 0
	}

	render.JSON(w, r, Response{
		Status:     "healthy",
		Timestamp:  time.Now(),
		UsersCount: count,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
	})
}

// HomeResponse — структура ответа корневой страницы.
type HomeResponse struct {
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

// Home возвращает обработчик корневой страницы с перечнем конечных точек.
func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, HomeResponse{
			Message: "Subscription Gatekeeper",
			Status:  "running",
			Endpoints: []string{
				"/auth/google (POST)",
				"/auth/check (GET)",
				"/auth/logout (POST)",
				"/admin/users (GET)",
				"/admin/subscription (POST)",
				"/health (GET)",
			},
		})
	}
}
