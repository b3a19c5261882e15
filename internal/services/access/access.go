// Package access реализует бизнес-логику жизненного цикла подписки
// и принятия решения о доступе.
//
// Правила: новая учетная запись получает пробный период фиксированной длины;
// статус active/expired вычисляется строгим сравнением даты окончания с
// текущим моментом и никогда не кешируется; административная установка
// целиком заменяет подписку и требует существующей учетной записи.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/events"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/metrics"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage"
)

// ErrInvalidPlanKind возвращается при попытке установить неизвестный план.
var ErrInvalidPlanKind = errors.New("invalid plan kind")

// ErrEmptyEmail возвращается при пустом идентификаторе пользователя.
var ErrEmptyEmail = errors.New("empty email")

// DefaultOverrideDays — срок подписки по умолчанию для административной
// установки, если количество дней не указано.
const DefaultOverrideDays = 30

// Store описывает методы хранилища, используемые движком.
type Store interface {
	// Get возвращает пользователя по email либо storage.ErrUserNotFound.
	Get(ctx context.Context, email string) (*models.User, error)
	// CreateIfAbsent атомарно создает запись, если ее еще нет.
	CreateIfAbsent(ctx context.Context, user models.User) (*models.User, bool, error)
	// SetSubscription заменяет подписку существующего пользователя.
	SetSubscription(ctx context.Context, email string, sub models.Subscription) error
	// ListAll возвращает всех пользователей.
	ListAll(ctx context.Context) ([]*models.User, error)
	// Count возвращает количество пользователей.
	Count(ctx context.Context) (int, error)
}

// Service реализует движок принятия решений о доступе.
type Service struct {
	store       Store
	publisher   events.Publisher
	log         *slog.Logger
	trialWindow time.Duration
	now         func() time.Time
}

// New создает новый Service.
//
// trialWindow — длина пробного периода, единственное место, где она задана.
func New(store Store, publisher events.Publisher, log *slog.Logger, trialWindow time.Duration) *Service {
	return &Service{
		store:       store,
		publisher:   publisher,
		log:         log,
		trialWindow: trialWindow,
		now:         time.Now,
	}
}

// Evaluate вычисляет решение о доступе по подписке и текущему моменту.
//
// Статус active только при строгом now < ExpiresAt: момент, равный дате
// окончания, уже считается истекшим. Для истекших подписок план и дата
// окончания обнуляются, чтобы клиент не видел устаревшие детали.
func Evaluate(sub models.Subscription, now time.Time) models.AccessDecision {
	if now.Before(sub.ExpiresAt) {
		expiresAt := sub.ExpiresAt
		return models.AccessDecision{
			Status:    models.StatusActive,
			PlanKind:  sub.PlanKind,
			ExpiresAt: &expiresAt,
		}
	}
	return models.AccessDecision{
		Status:    models.StatusExpired,
		PlanKind:  models.PlanNone,
		ExpiresAt: nil,
	}
}

// Authenticate возвращает учетную запись и решение о доступе для проверенного
// идентификатора, создавая запись с пробным периодом при первом входе.
//
// При недоступности хранилища возвращается разрешающее решение по умолчанию
// (активный пробный период от текущего момента). Это осознанная политика
// fail-open для демо и деградированных окружений, небезопасная для продакшена.
func (s *Service) Authenticate(ctx context.Context, email, name string) (*models.User, models.AccessDecision, error) {
	const op = "services.access.Authenticate"
	if email == "" {
		return nil, models.AccessDecision{}, fmt.Errorf("%s: %w", op, ErrEmptyEmail)
	}

	now := s.now()
	candidate := models.User{
		Email: email,
		Name:  name,
		Subscription: models.Subscription{
			PlanKind:  models.PlanTrial,
			ExpiresAt: now.Add(s.trialWindow),
		},
		CreatedAt: now,
	}

	stored, created, err := s.store.CreateIfAbsent(ctx, candidate)
	if err != nil {
		s.log.Warn("store unavailable, falling back to permissive default decision",
			slog.String("email", email), sl.Err(err))
		return &candidate, s.defaultDecision(now), nil
	}

	if created {
		s.log.Info("granted trial subscription",
			slog.String("email", email),
			slog.Time("expires_at", stored.Subscription.ExpiresAt))
		metrics.TrialGrants.Inc()
		s.publish(events.SubscriptionEvent{
			Kind:      events.KindTrialGranted,
			Email:     email,
			PlanKind:  models.PlanTrial,
			ExpiresAt: stored.Subscription.ExpiresAt,
			At:        now,
		})
	}

	return stored, Evaluate(stored.Subscription, now), nil
}

// Check повторно вычисляет решение о доступе для идентификатора из сессии.
//
// Учетная запись никогда не создается: сессия без записи в хранилище
// трактуется как истекшая подписка с нейтральными полями плана.
func (s *Service) Check(ctx context.Context, email string) (models.AccessDecision, error) {
	now := s.now()
	stored, err := s.store.Get(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		return models.AccessDecision{
			Status:    models.StatusExpired,
			PlanKind:  models.PlanNone,
			ExpiresAt: nil,
		}, nil
	}
	if err != nil {
		s.log.Warn("store unavailable, falling back to permissive default decision",
			slog.String("email", email), sl.Err(err))
		return s.defaultDecision(now), nil
	}
	return Evaluate(stored.Subscription, now), nil
}

// Override целиком заменяет подписку существующего пользователя.
//
// Для плана lifetime дата окончания — фиксированная дата в далеком будущем,
// параметр days игнорируется. Для остальных планов срок — days дней от
// текущего момента, по умолчанию DefaultOverrideDays. Перенос даты окончания
// назад не запрещен: операция намеренно ничем не ограничена для операторов.
func (s *Service) Override(ctx context.Context, email, planKind string, days int) (models.Subscription, error) {
	const op = "services.access.Override"
	if !models.ValidPlanKind(planKind) {
		return models.Subscription{}, fmt.Errorf("%s: %w: %s", op, ErrInvalidPlanKind, planKind)
	}

	now := s.now()
	var expiresAt time.Time
	if planKind == models.PlanLifetime {
		expiresAt = models.LifetimeExpiry
	} else {
		if days <= 0 {
			days = DefaultOverrideDays
		}
		expiresAt = now.AddDate(0, 0, days)
	}

	sub := models.Subscription{
		PlanKind:  planKind,
		ExpiresAt: expiresAt,
		UpdatedAt: &now,
	}
	if err := s.store.SetSubscription(ctx, email, sub); err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription overridden",
		slog.String("email", email),
		slog.String("plan_kind", planKind),
		slog.Time("expires_at", expiresAt))
	metrics.AdminOverrides.WithLabelValues(planKind).Inc()
	s.publish(events.SubscriptionEvent{
		Kind:      events.KindOverride,
		Email:     email,
		PlanKind:  planKind,
		ExpiresAt: expiresAt,
		At:        now,
	})

	return sub, nil
}

// ListUsers возвращает все учетные записи.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListAll(ctx)
}

// CountUsers возвращает количество учетных записей для диагностики.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *Service) defaultDecision(now time.Time) models.AccessDecision {
	expiresAt := now.Add(s.trialWindow)
	return models.AccessDecision{
		Status:    models.StatusActive,
		PlanKind:  models.PlanTrial,
		ExpiresAt: &expiresAt,
	}
}

func (s *Service) publish(event events.SubscriptionEvent) {
	if err := s.publisher.Publish(event); err != nil {
		s.log.Warn("failed to publish subscription event",
			slog.String("kind", event.Kind), sl.Err(err))
	}
}
