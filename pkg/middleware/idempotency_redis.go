package middleware

import (
	"context"
	"encoding/json"
	"time"

	"devevents/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "devevents:idempotency:"

// RedisIdempotencyStore shares idempotency records across replicas. Redis
// errors degrade to a cache miss.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl, log: log}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	data, err := s.rdb.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Idempotency lookup failed", "error", err)
		}
		return nil, false
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		s.log.Warn("Idempotency record is corrupt", "error", err)
		return nil, false
	}
	return &cached, true
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) {
	response.CreatedAt = time.Now()
	data, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("Idempotency record could not be encoded", "error", err)
		return
	}

	if err := s.rdb.Set(context.WithoutCancel(ctx), idempotencyKeyPrefix+key, data, s.ttl).Err(); err != nil {
		s.log.Warn("Idempotency record could not be stored", "error", err)
	}
}

// Stop is a no-op; the Redis client is owned by the application.
func (s *RedisIdempotencyStore) Stop() {}
