package database

import (
	"context"
	"fmt"

	"subject_recommender/internal/config"
	"subject_recommender/pkg/logger"

	"github.com/go-redis/redis/v8"
)

func InitRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	logger.Log.Info("Redis connection established")
	return rdb, nil
}
