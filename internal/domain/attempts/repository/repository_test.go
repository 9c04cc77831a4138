package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// stores возвращает обе реализации AttemptStore: Redis (через miniredis) и in-memory.
func stores(t *testing.T) map[string]AttemptStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]AttemptStore{
		"redis":  NewRedisStore(rdb),
		"memory": NewMemoryStore(),
	}
}

// TestAttemptCount проверяет счетчик попыток: ноль без записи, инкремент, независимость ключей.
func TestAttemptCount(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			count, err := store.GetAttemptCount(ctx, "g1", "u1")
			require.NoError(t, err)
			require.Equal(t, 0, count)

			require.NoError(t, store.IncrementAttemptCount(ctx, "g1", "u1"))
			require.NoError(t, store.IncrementAttemptCount(ctx, "g1", "u1"))

			count, err = store.GetAttemptCount(ctx, "g1", "u1")
			require.NoError(t, err)
			require.Equal(t, 2, count)

			// Счетчики разных пользователей и гильдий не пересекаются.
			count, err = store.GetAttemptCount(ctx, "g1", "u2")
			require.NoError(t, err)
			require.Equal(t, 0, count)
			count, err = store.GetAttemptCount(ctx, "g2", "u1")
			require.NoError(t, err)
			require.Equal(t, 0, count)
		})
	}
}

// TestMaxTriesDefault проверяет ленивую инициализацию потолка попыток:
// первое чтение записывает 3, повторное чтение не сбрасывает настроенное значение.
func TestMaxTriesDefault(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := store.GetMaxTries(ctx, "g1")
			require.NoError(t, err)
			require.Equal(t, DefaultMaxTries, n)

			n, err = store.GetMaxTries(ctx, "g1")
			require.NoError(t, err)
			require.Equal(t, DefaultMaxTries, n)

			require.NoError(t, store.SetMaxTries(ctx, "g1", 5))
			n, err = store.GetMaxTries(ctx, "g1")
			require.NoError(t, err)
			require.Equal(t, 5, n)
		})
	}
}

// TestMarkCompleted проверяет, что завершение добавляет в множество прошедших
// и очищает счетчик попыток.
func TestMarkCompleted(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			done, err := store.IsCompleted(ctx, "g1", "u1")
			require.NoError(t, err)
			require.False(t, done)

			require.NoError(t, store.IncrementAttemptCount(ctx, "g1", "u1"))
			require.NoError(t, store.MarkCompleted(ctx, "g1", "u1"))

			done, err = store.IsCompleted(ctx, "g1", "u1")
			require.NoError(t, err)
			require.True(t, done)

			count, err := store.GetAttemptCount(ctx, "g1", "u1")
			require.NoError(t, err)
			require.Equal(t, 0, count)
		})
	}
}

// TestResetUser проверяет сброс: счетчик обнулен, отметка о прохождении снята,
// повторный сброс не ошибается.
func TestResetUser(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.IncrementAttemptCount(ctx, "g1", "u1"))
			require.NoError(t, store.MarkCompleted(ctx, "g1", "u1"))

			require.NoError(t, store.ResetUser(ctx, "g1", "u1"))

			count, err := store.GetAttemptCount(ctx, "g1", "u1")
			require.NoError(t, err)
			require.Equal(t, 0, count)
			done, err := store.IsCompleted(ctx, "g1", "u1")
			require.NoError(t, err)
			require.False(t, done)

			// Идемпотентность.
			require.NoError(t, store.ResetUser(ctx, "g1", "u1"))
		})
	}
}

// TestRewardRole проверяет конфигурацию роли-награды: пусто до настройки.
func TestRewardRole(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			roleID, err := store.GetRewardRole(ctx, "g1")
			require.NoError(t, err)
			require.Empty(t, roleID)

			require.NoError(t, store.SetRewardRole(ctx, "g1", "role123"))
			roleID, err = store.GetRewardRole(ctx, "g1")
			require.NoError(t, err)
			require.Equal(t, "role123", roleID)
		})
	}
}
