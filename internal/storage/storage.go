// Package storage определяет интерфейс хранилища пользователей
// и общие для всех реализаций ошибки.
//
// Хранилище поддерживает точечные чтения и записи по email,
// транзакции между записями не требуются. CreateIfAbsent обязан быть
// атомарной операцией "создать, если нет": одновременные первые входы
// одного пользователя не должны перетирать пробный период друг друга.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь с указанным email отсутствует.
var ErrUserNotFound = errors.New("user not found")

// Store описывает хранилище учетных записей, ключом служит email.
type Store interface {
	// Get возвращает пользователя по email либо ErrUserNotFound.
	Get(ctx context.Context, email string) (*models.User, error)
	// CreateIfAbsent атомарно создает запись, если ее еще нет.
	// Возвращает сохраненную запись и признак, была ли она создана этим вызовом.
	CreateIfAbsent(ctx context.Context, user models.User) (*models.User, bool, error)
	// SetSubscription целиком заменяет подписку существующего пользователя.
	// Возвращает ErrUserNotFound, если записи нет: административная
	// установка не должна молча создавать учетные записи.
	SetSubscription(ctx context.Context, email string, sub models.Subscription) error
	// ListAll возвращает всех пользователей.
	ListAll(ctx context.Context) ([]*models.User, error)
	// Count возвращает количество пользователей.
	Count(ctx context.Context) (int, error)
}
