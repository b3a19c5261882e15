// Package memory реализует хранилище пользователей в памяти процесса.
//
// Используется в тестах и в демо-режиме, когда строка подключения к базе
// не задана. Данные не переживают перезапуск процесса.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage"
)

// Storage хранит пользователей в map под мьютексом.
type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// New создает пустое хранилище в памяти.
func New() *Storage {
	return &Storage{
		users: make(map[string]models.User),
	}
}

// Get возвращает копию записи пользователя по email.
func (s *Storage) Get(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.Get"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return &u, nil
}

// CreateIfAbsent создает запись, если ее еще нет. Проверка и вставка
// выполняются под одним захватом мьютекса, гонка двух первых входов
// не теряет данные: проигравший получает уже сохраненную запись.
func (s *Storage) CreateIfAbsent(ctx context.Context, user models.User) (*models.User, bool, error) {
	const op = "storage.memory.CreateIfAbsent"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.Email]; ok {
		return &existing, false, nil
	}
	s.users[user.Email] = user
	return &user, true, nil
}

// SetSubscription заменяет подписку существующего пользователя.
func (s *Storage) SetSubscription(ctx context.Context, email string, sub models.Subscription) error {
	const op = "storage.memory.SetSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	u.Subscription = sub
	s.users[email] = u
	return nil
}

// ListAll возвращает всех пользователей, отсортированных по email.
func (s *Storage) ListAll(ctx context.Context) ([]*models.User, error) {
	const op = "storage.memory.ListAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		user := u
		result = append(result, &user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Email < result[j].Email
	})
	return result, nil
}

// Count возвращает количество пользователей.
func (s *Storage) Count(ctx context.Context) (int, error) {
	const op = "storage.memory.Count"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
