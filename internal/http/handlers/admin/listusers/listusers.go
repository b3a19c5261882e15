// Package listusers реализует административный HTTP-обработчик перечисления
// всех учетных записей. Доступ защищен заголовком X-Admin-Key на уровне middleware.
package listusers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/response"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
)

// Response — структура ответа со списком пользователей.
type Response struct {
	Users []*models.User `json:"users"`
}

// Service описывает интерфейс бизнес-логики перечисления пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает административные запросы списка пользователей.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики доступа
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список всех пользователей
// @Description Возвращает все учетные записи с подписками. Требует заголовок X-Admin-Key.
// @Tags Admin
// @Produce  json
// @Success 200 {object} Response "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Неверный административный ключ"
// @Failure 500 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listusers"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	log.Info("listed users", slog.Int("count", len(users)))
	render.JSON(w, r, Response{Users: users})
}
