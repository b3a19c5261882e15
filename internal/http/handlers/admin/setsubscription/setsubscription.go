// Package setsubscription реализует административный HTTP-обработчик замены
// подписки пользователя. Доступ защищен заголовком X-Admin-Key на уровне middleware.
//
// Учетная запись должна существовать: операция не создает пользователей,
// чтобы опечатка в email не маскировалась молчаливым созданием записи.
package setsubscription

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/response"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/services/access"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage"
)

// Request — структура входных данных для замены подписки.
//
// Days игнорируется для плана lifetime; для остальных планов
// при отсутствии используется значение по умолчанию.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	PlanKind string `json:"plan_kind" validate:"required,oneof=trial monthly yearly lifetime"`
	Days     int    `json:"days,omitempty" validate:"omitempty,min=1"`
}

// Response — структура успешного ответа замены подписки.
type Response struct {
	Success      bool                `json:"success"`
	Subscription models.Subscription `json:"subscription"`
}

// Service описывает интерфейс бизнес-логики замены подписки.
type Service interface {
	Override(ctx context.Context, email, planKind string, days int) (models.Subscription, error)
}

// Handler обрабатывает административные запросы замены подписки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики доступа
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Заменить подписку пользователя
// @Description Целиком заменяет подписку существующего пользователя. Требует заголовок X-Admin-Key.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Email, план и срок в днях"
// @Success 200 {object} Response "Подписка заменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или отсутствуют поля"
// @Failure 401 {object} response.ErrorResponse "Неверный административный ключ"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.setsubscription"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Override(r.Context(), req.Email, req.PlanKind, req.Days)
	if errors.Is(err, storage.ErrUserNotFound) {
		log.Error("user not found", slog.String("email", req.Email))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	if errors.Is(err, access.ErrInvalidPlanKind) {
		log.Error("invalid plan kind", slog.String("plan_kind", req.PlanKind))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan kind"))
		return
	}
	if err != nil {
		log.Error("failed to update subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update subscription"))
		return
	}

	log.Info("subscription updated",
		slog.String("email", req.Email),
		slog.String("plan_kind", sub.PlanKind))
	render.JSON(w, r, Response{
		Success:      true,
		Subscription: sub,
	})
}
