package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-gatekeeper/internal/models"
	"github.com/magabrotheeeer/subscription-gatekeeper/internal/storage"
)

func testUser(email string) models.User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.User{
		Email: email,
		Name:  "Test User",
		Subscription: models.Subscription{
			PlanKind:  models.PlanTrial,
			ExpiresAt: now.AddDate(0, 0, 30),
		},
		CreatedAt: now,
	}
}

func TestStorage_GetNotFound(t *testing.T) {
	s := New()

	_, err := s.Get(context.Background(), "missing@x.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_CreateIfAbsent(t *testing.T) {
	s := New()
	ctx := context.Background()

	stored, created, err := s.CreateIfAbsent(ctx, testUser("a@x.com"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "a@x.com", stored.Email)

	// Повторный вызов возвращает уже сохраненную запись
	other := testUser("a@x.com")
	other.Name = "Other Name"
	stored, created, err = s.CreateIfAbsent(ctx, other)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Test User", stored.Name)
}

func TestStorage_CreateIfAbsent_Concurrent(t *testing.T) {
	s := New()
	ctx := context.Background()

	const goroutines = 16
	var wg sync.WaitGroup
	createdCount := make(chan bool, goroutines)

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := s.CreateIfAbsent(ctx, testUser("race@x.com"))
			require.NoError(t, err)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	var total int
	for created := range createdCount {
		if created {
			total++
		}
	}
	// Ровно один вызов должен выиграть гонку создания
	assert.Equal(t, 1, total)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_SetSubscription(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _, err := s.CreateIfAbsent(ctx, testUser("a@x.com"))
	require.NoError(t, err)

	updatedAt := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sub := models.Subscription{
		PlanKind:  models.PlanLifetime,
		ExpiresAt: models.LifetimeExpiry,
		UpdatedAt: &updatedAt,
	}
	require.NoError(t, s.SetSubscription(ctx, "a@x.com", sub))

	got, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.PlanLifetime, got.Subscription.PlanKind)
	assert.Equal(t, models.LifetimeExpiry, got.Subscription.ExpiresAt)
}

func TestStorage_SetSubscription_NotFound(t *testing.T) {
	s := New()

	err := s.SetSubscription(context.Background(), "missing@x.com", models.Subscription{
		PlanKind:  models.PlanMonthly,
		ExpiresAt: time.Now().AddDate(0, 0, 30),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	// Запись не должна появиться
	count, countErr := s.Count(context.Background())
	require.NoError(t, countErr)
	assert.Equal(t, 0, count)
}

func TestStorage_ListAll(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		_, _, err := s.CreateIfAbsent(ctx, testUser(email))
		require.NoError(t, err)
	}

	users, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "a@x.com", users[0].Email)
	assert.Equal(t, "b@x.com", users[1].Email)
	assert.Equal(t, "c@x.com", users[2].Email)
}

func TestStorage_ContextCancelled(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "a@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
