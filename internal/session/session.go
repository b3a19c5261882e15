// Package session реализует серверные сессии, привязанные к непрозрачному токену.
//
// Сессия хранит только email и имя пользователя — ровно то, что нужно для
// повторной проверки статуса подписки без предъявления токена идентификации.
// Решение о доступе в сессии не хранится и вычисляется заново при каждом запросе.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSessionNotFound возвращается, когда сессия отсутствует или истекла.
var ErrSessionNotFound = errors.New("session not found")

// Identity — данные пользователя, сохраняемые в сессии.
type Identity struct {
	Email string `json:"email"` // Электронная почта пользователя
	Name  string `json:"name"`  // Отображаемое имя
}

// Manager описывает интерфейс хранилища сессий.
type Manager interface {
	// Create сохраняет identity под новым токеном и возвращает токен.
	Create(ctx context.Context, identity Identity) (string, error)
	// Get возвращает identity по токену либо ErrSessionNotFound.
	Get(ctx context.Context, token string) (*Identity, error)
	// Delete удаляет сессию. Отсутствие сессии ошибкой не считается.
	Delete(ctx context.Context, token string) error
}

// newToken генерирует непрозрачный токен сессии.
func newToken() string {
	return uuid.NewString()
}
