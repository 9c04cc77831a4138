package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultMaxTries — количество попыток по умолчанию, если администратор
// гильдии не настроил свое значение.
const DefaultMaxTries = 3

// AttemptStore — фасад над хранилищем состояния теста. Каждая операция —
// отдельный запрос к хранилищу, без транзакций и повторов; ошибка соединения
// поднимается вызывающему как есть.
type AttemptStore interface {
	// GetAttemptCount возвращает число принятых попыток пользователя (0, если записи нет).
	GetAttemptCount(ctx context.Context, guildID, userID string) (int, error)
	// IncrementAttemptCount атомарно увеличивает счетчик попыток.
	// Вызывается ровно один раз — в момент, когда пользователь принял тест.
	IncrementAttemptCount(ctx context.Context, guildID, userID string) error
	// IsCompleted сообщает, прошел ли пользователь тест в этой гильдии.
	IsCompleted(ctx context.Context, guildID, userID string) (bool, error)
	// MarkCompleted добавляет пользователя в множество прошедших и
	// удаляет его счетчик попыток: завершение вытесняет учет попыток.
	MarkCompleted(ctx context.Context, guildID, userID string) error
	// GetMaxTries возвращает потолок попыток гильдии. Если значение не задано,
	// записывает значение по умолчанию как побочный эффект чтения.
	GetMaxTries(ctx context.Context, guildID string) (int, error)
	SetMaxTries(ctx context.Context, guildID string, n int) error
	// GetRewardRole возвращает ID роли-награды или пустую строку, если роль не настроена.
	GetRewardRole(ctx context.Context, guildID string) (string, error)
	SetRewardRole(ctx context.Context, guildID, roleID string) error
	// ResetUser сбрасывает счетчик попыток и членство в множестве прошедших. Идемпотентна.
	ResetUser(ctx context.Context, guildID, userID string) error
}

// Ключи хранилища. Счетчик попыток привязан к паре гильдия+пользователь,
// остальные факты — к гильдии.
func attemptKey(guildID, userID string) string {
	return fmt.Sprintf("pyro_test:%s:%s", guildID, userID)
}

func completedKey(guildID string) string {
	return fmt.Sprintf("pyro_test_completed:%s", guildID)
}

func roleKey(guildID string) string {
	return fmt.Sprintf("pyro_test_role:%s", guildID)
}

func maxTriesKey(guildID string) string {
	return fmt.Sprintf("pyro_test_max_tries:%s", guildID)
}

// RedisStore — реализация AttemptStore поверх Redis.
type RedisStore struct {
	rdb *redis.Client
}

var _ AttemptStore = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetAttemptCount(ctx context.Context, guildID, userID string) (int, error) {
	val, err := s.rdb.Get(ctx, attemptKey(guildID, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get attempt count: %w", err)
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse attempt count %q: %w", val, err)
	}
	return count, nil
}

func (s *RedisStore) IncrementAttemptCount(ctx context.Context, guildID, userID string) error {
	if err := s.rdb.Incr(ctx, attemptKey(guildID, userID)).Err(); err != nil {
		return fmt.Errorf("increment attempt count: %w", err)
	}
	return nil
}

func (s *RedisStore) IsCompleted(ctx context.Context, guildID, userID string) (bool, error) {
	done, err := s.rdb.SIsMember(ctx, completedKey(guildID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return done, nil
}

func (s *RedisStore) MarkCompleted(ctx context.Context, guildID, userID string) error {
	if err := s.rdb.SAdd(ctx, completedKey(guildID), userID).Err(); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if err := s.rdb.Del(ctx, attemptKey(guildID, userID)).Err(); err != nil {
		return fmt.Errorf("clear attempt count: %w", err)
	}
	return nil
}

func (s *RedisStore) GetMaxTries(ctx context.Context, guildID string) (int, error) {
	val, err := s.rdb.Get(ctx, maxTriesKey(guildID)).Result()
	if errors.Is(err, redis.Nil) {
		if err := s.rdb.Set(ctx, maxTriesKey(guildID), DefaultMaxTries, 0).Err(); err != nil {
			return 0, fmt.Errorf("set default max tries: %w", err)
		}
		return DefaultMaxTries, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get max tries: %w", err)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse max tries %q: %w", val, err)
	}
	return n, nil
}

func (s *RedisStore) SetMaxTries(ctx context.Context, guildID string, n int) error {
	if err := s.rdb.Set(ctx, maxTriesKey(guildID), n, 0).Err(); err != nil {
		return fmt.Errorf("set max tries: %w", err)
	}
	return nil
}

func (s *RedisStore) GetRewardRole(ctx context.Context, guildID string) (string, error) {
	roleID, err := s.rdb.Get(ctx, roleKey(guildID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get reward role: %w", err)
	}
	return roleID, nil
}

func (s *RedisStore) SetRewardRole(ctx context.Context, guildID, roleID string) error {
	if err := s.rdb.Set(ctx, roleKey(guildID), roleID, 0).Err(); err != nil {
		return fmt.Errorf("set reward role: %w", err)
	}
	return nil
}

func (s *RedisStore) ResetUser(ctx context.Context, guildID, userID string) error {
	if err := s.rdb.Del(ctx, attemptKey(guildID, userID)).Err(); err != nil {
		return fmt.Errorf("clear attempt count: %w", err)
	}
	if err := s.rdb.SRem(ctx, completedKey(guildID), userID).Err(); err != nil {
		return fmt.Errorf("remove from completed set: %w", err)
	}
	return nil
}
