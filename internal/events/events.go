// Package events публикует события жизненного цикла подписок в RabbitMQ.
//
// События информационные: выдача пробного периода и административная
// замена подписки. Ошибка публикации не прерывает обработку запроса,
// сервис лишь пишет предупреждение в лог.
package events

import (
	"time"
)

// Виды событий подписки.
const (
	// KindTrialGranted — выдан пробный период при первом входе.
	KindTrialGranted = "subscription.trial"
	// KindOverride — подписка заменена администратором.
	KindOverride = "subscription.override"
)

// SubscriptionEvent — сообщение о изменении подписки пользователя.
type SubscriptionEvent struct {
	Kind      string    `json:"kind"`       // Вид события
	Email     string    `json:"email"`      // Электронная почта пользователя
	PlanKind  string    `json:"plan_kind"`  // Назначенный план
	ExpiresAt time.Time `json:"expires_at"` // Дата окончания действия
	At        time.Time `json:"at"`         // Момент события
}

// Publisher описывает интерфейс публикации событий подписок.
type Publisher interface {
	Publish(event SubscriptionEvent) error
}

// Noop — заглушка, используемая когда RabbitMQ не настроен.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(SubscriptionEvent) error { return nil }
