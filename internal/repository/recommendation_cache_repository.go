package repository

import (
	"context"
	"errors"
	"time"

	"subject_recommender/internal/config"
	"subject_recommender/pkg/logger"

	"github.com/go-redis/redis/v8"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// RecommendationCacheRepository 推荐结果缓存，redis 故障时由熔断器快速失败
type RecommendationCacheRepository struct {
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	timeout time.Duration
}

func NewRecommendationCacheRepository(rdb *redis.Client, cfg config.CacheConfig) *RecommendationCacheRepository {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        "recommendation-cache",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerOpenSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("Cache circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &RecommendationCacheRepository{
		rdb:     rdb,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		timeout: time.Duration(cfg.OperationTimeoutMs) * time.Millisecond,
	}
}

func (r *RecommendationCacheRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Get returns the cached payload; found is false on a miss.
func (r *RecommendationCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.breaker.Execute(func() ([]byte, error) {
		data, err := r.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

func (r *RecommendationCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.breaker.Execute(func() ([]byte, error) {
		return nil, r.rdb.Set(ctx, key, value, ttl).Err()
	})
	return err
}

// DeleteMatching removes every key matching pattern using SCAN, never KEYS.
func (r *RecommendationCacheRepository) DeleteMatching(ctx context.Context, pattern string) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	deleted := 0
	_, err := r.breaker.Execute(func() ([]byte, error) {
		iter := r.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		var batch []string
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 100 {
				if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
					return nil, err
				}
				deleted += len(batch)
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		if len(batch) > 0 {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return nil, err
			}
			deleted += len(batch)
		}
		return nil, nil
	})
	return deleted, err
}

// State reports the breaker state for logs and tests.
func (r *RecommendationCacheRepository) State() string {
	return r.breaker.State().String()
}
