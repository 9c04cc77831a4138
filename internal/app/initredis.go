package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thatredkite/pyrobot/internal/infra/config"
)

// InitRedis устанавливает подключение к Redis
func InitRedis(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	const op = "app.InitRedis"

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
		DB:   cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to ping redis: %w", op, err)
	}

	log.Info("redis connected successfully", zap.String("addr", cfg.RedisAddr()), zap.Int("db", cfg.Redis.DB))
	return rdb, nil
}
