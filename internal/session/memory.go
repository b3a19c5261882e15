package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryManager хранит сессии в памяти процесса. Используется в тестах
// и в демо-режиме, когда Redis не настроен.
type MemoryManager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// NewMemory создает менеджер сессий в памяти с указанным временем жизни.
func NewMemory(ttl time.Duration) *MemoryManager {
	return &MemoryManager{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// Create сохраняет identity под новым токеном.
func (m *MemoryManager) Create(ctx context.Context, identity Identity) (string, error) {
	const op = "session.memory.Create"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token := newToken()
	m.sessions[token] = memoryEntry{
		identity:  identity,
		expiresAt: m.now().Add(m.ttl),
	}
	return token, nil
}

// Get возвращает identity по токену. Истекшие сессии удаляются лениво.
func (m *MemoryManager) Get(ctx context.Context, token string) (*Identity, error) {
	const op = "session.memory.Get"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.sessions, token)
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	identity := entry.identity
	return &identity, nil
}

// Delete удаляет сессию по токену.
func (m *MemoryManager) Delete(ctx context.Context, token string) error {
	const op = "session.memory.Delete"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
