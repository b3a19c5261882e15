// Package check реализует HTTP-обработчик повторной проверки статуса подписки.
//
// Идентификатор берется из сессии (middleware кладет его в контекст),
// решение о доступе вычисляется заново при каждом запросе. Учетная запись
// не создается: сессия без записи в хранилище трактуется как истекшая подписка.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/response"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
)

// Response — структура ответа проверки аутентификации.
type Response struct {
	Authenticated bool                  `json:"authenticated"`
	User          UserView              `json:"user"`
	Subscription  models.AccessDecision `json:"subscription"`
}

// UserView — представление пользователя в ответе.
type UserView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	Check(ctx context.Context, email string) (models.AccessDecision, error)
}

// Handler обрабатывает HTTP-запросы проверки статуса.
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
// @Summary Проверить статус аутентификации и подписки
// @Description Повторно вычисляет решение о доступе по идентификатору из сессии.
// @Tags Auth
// @Produce  json
// @Success 200 {object} Response "Статус аутентификации и подписки"
// @Failure 401 {object} map[string]any "Сессия отсутствует или истекла"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/check [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, map[string]any{"authenticated": false})
		return
	}
	name, _ := r.Context().Value(middlewarectx.Name).(string)

	decision, err := h.service.Check(r.Context(), email)
	if err != nil {
		log.Error("check failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("check failed"))
		return
	}

	log.Info("check success",
		slog.String("email", email),
		slog.String("status", decision.Status))
	render.JSON(w, r, Response{
		Authenticated: true,
		User:          UserView{Email: email, Name: name},
		Subscription:  decision,
	})
}
