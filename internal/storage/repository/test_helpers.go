package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя с подпиской
func (f *TestDataFactory) CreateUser(t *testing.T, email, name, planKind string,
	expiresAt, createdAt time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (email, name, plan_kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		email, name, planKind, expiresAt, createdAt)
	require.NoError(t, err)
}

// GetTestUser возвращает стандартные тестовые данные пользователя
func GetTestUser() models.User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.User{
		Email: "test@example.com",
		Name:  "Test User",
		Subscription: models.Subscription{
			PlanKind:  models.PlanTrial,
			ExpiresAt: now.AddDate(0, 0, 30),
		},
		CreatedAt: now,
	}
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserExists проверяет существование пользователя в БД
func (v *TestVerification) VerifyUserExists(t *testing.T, email string) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", email).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyUserPlan проверяет план подписки пользователя
func (v *TestVerification) VerifyUserPlan(t *testing.T, email, expectedPlanKind string) {
	var planKind string
	err := v.storage.DB.QueryRow("SELECT plan_kind FROM users WHERE email = $1", email).
		Scan(&planKind)
	require.NoError(t, err)
	require.Equal(t, expectedPlanKind, planKind)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицу по схеме миграций
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS users CASCADE;

        CREATE TABLE users (
            email TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            plan_kind TEXT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            sub_updated_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
