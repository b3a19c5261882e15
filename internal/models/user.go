// Package models содержит доменные модели пользователя и его подписки,
// используемые в бизнес-логике и хранилище.
package models

import "time"

// Виды тарифных планов подписки.
const (
	// PlanTrial — пробный период, выдается при первом входе.
	PlanTrial = "trial"
	// PlanMonthly — месячная подписка.
	PlanMonthly = "monthly"
	// PlanYearly — годовая подписка.
	PlanYearly = "yearly"
	// PlanLifetime — бессрочная подписка.
	PlanLifetime = "lifetime"
	// PlanNone — отсутствие действующего плана, возвращается для истекших подписок.
	PlanNone = "none"
)

// Статусы подписки. Статус не хранится, а вычисляется при каждом запросе.
const (
	// StatusActive — подписка действует.
	StatusActive = "active"
	// StatusExpired — срок подписки истек.
	StatusExpired = "expired"
)

// LifetimeExpiry — фиксированная дата окончания для бессрочных подписок.
// Хранится как обычная дата, чтобы проверка статуса оставалась единым
// сравнением времени для всех планов.
var LifetimeExpiry = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// Subscription описывает текущую подписку пользователя.
// История не хранится: административное изменение целиком заменяет значение.
type Subscription struct {
	PlanKind  string     `json:"plan_kind"`            // Тарифный план: trial, monthly, yearly, lifetime
	ExpiresAt time.Time  `json:"expires_at"`           // Дата окончания действия
	UpdatedAt *time.Time `json:"updated_at,omitempty"` // Дата последнего административного изменения
}

// User представляет учетную запись пользователя.
// Email служит первичным ключом хранилища.
type User struct {
	Email        string       `json:"email"`        // Электронная почта, уникальный идентификатор
	Name         string       `json:"name"`         // Отображаемое имя, без ограничений уникальности
	Subscription Subscription `json:"subscription"` // Текущая подписка
	CreatedAt    time.Time    `json:"created_at"`   // Дата первого входа, не изменяется
}

// AccessDecision — результат проверки доступа, возвращаемый клиенту.
// Для истекших подписок PlanKind и ExpiresAt нормализуются:
// клиент не должен видеть устаревшие детали плана.
type AccessDecision struct {
	Status    string     `json:"status"`     // active или expired
	PlanKind  string     `json:"plan_kind"`  // План подписки либо none
	ExpiresAt *time.Time `json:"expires_at"` // Дата окончания либо null
}

// ValidPlanKind сообщает, допустим ли план для административной установки.
func ValidPlanKind(kind string) bool {
	switch kind {
	case PlanTrial, PlanMonthly, PlanYearly, PlanLifetime:
		return true
	}
	return false
}
