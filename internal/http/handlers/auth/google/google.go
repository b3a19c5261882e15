// Package google реализует HTTP-обработчик аутентификации по токену идентификации.
//
// Обработчик принимает JSON с токеном, проверяет его через identity.Verifier,
// создает или получает учетную запись с решением о доступе через сервис,
// открывает серверную сессию и выставляет cookie.
package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/config"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/http/response"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/identity"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/metrics"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/session"
)

// Значения по умолчанию для неполных данных идентификации,
// унаследованы от исходного демо-поведения сервиса.
const (
	defaultEmail = "demo@example.com"
	defaultName  = "Demo User"
)

// Request — структура входных данных для аутентификации.
//
// Token — проверяемый токен идентификации. Email и Name используются,
// только если соответствующих полей нет в claims токена.
type Request struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Response — структура успешного ответа аутентификации.
type Response struct {
	Success      bool                  `json:"success"`
	User         UserView              `json:"user"`
	Subscription models.AccessDecision `json:"subscription"`
}

// UserView — представление пользователя в ответе.
type UserView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Authenticate(ctx context.Context, email, name string) (*models.User, models.AccessDecision, error)
}

// Handler обрабатывает HTTP-запросы аутентификации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики доступа
	verifier identity.Verifier   // Проверка токена идентификации
	sessions session.Manager     // Хранилище сессий
	cookie   config.Session      // Настройки cookie сессии
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, verifier identity.Verifier, sessions session.Manager, cookie config.Session) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		verifier: verifier,
		sessions: sessions,
		cookie:   cookie,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Аутентификация по токену идентификации
// @Description Проверяет токен, создает учетную запись с пробным периодом при первом входе, открывает сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен идентификации"
// @Success 200 {object} Response "Успешная аутентификация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или отсутствует токен"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/google [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.google"
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

	claims, err := h.verifier.Verify(req.Token)
	if err != nil {
		log.Error("invalid identity token", sl.Err(err))
		metrics.AuthAttempts.WithLabelValues("invalid_token").Inc()
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid token"))
		return
	}

	email := claims.Email
	if email == "" {
		email = req.Email
	}
	if email == "" {
		email = defaultEmail
	}
	name := claims.Name
	if name == "" {
		name = req.Name
	}
	if name == "" {
		name = defaultName
	}

	user, decision, err := h.service.Authenticate(r.Context(), email, name)
	if err != nil {
		log.Error("authentication failed", sl.Err(err))
		metrics.AuthAttempts.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("authentication failed"))
		return
	}

	token, err := h.sessions.Create(r.Context(), session.Identity{Email: user.Email, Name: user.Name})
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		metrics.AuthAttempts.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("authentication failed"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("authentication success",
		slog.String("email", user.Email),
		slog.String("status", decision.Status))
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	render.JSON(w, r, Response{
		Success:      true,
		User:         UserView{Email: user.Email, Name: user.Name},
		Subscription: decision,
	})
}
