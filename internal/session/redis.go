package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/config"
)

// RedisManager хранит сессии в Redis с ограниченным временем жизни.
type RedisManager struct {
	db  *redis.Client
	ttl time.Duration
}

// InitRedis подключается к Redis и возвращает менеджер сессий.
func InitRedis(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*RedisManager, error) {
	const op = "session.InitRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisManager{db: db, ttl: ttl}, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create сохраняет identity под новым токеном.
func (m *RedisManager) Create(ctx context.Context, identity Identity) (string, error) {
	const op = "session.redis.Create"
	token := newToken()
	jsonData, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := m.db.Set(ctx, sessionKey(token), jsonData, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Get возвращает identity по токену.
func (m *RedisManager) Get(ctx context.Context, token string) (*Identity, error) {
	const op = "session.redis.Get"
	val, err := m.db.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var identity Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &identity, nil
}

// Delete удаляет сессию по токену.
func (m *RedisManager) Delete(ctx context.Context, token string) error {
	const op = "session.redis.Delete"
	if err := m.db.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
