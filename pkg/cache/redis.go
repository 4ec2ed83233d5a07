package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devevents/pkg/logger"
	"devevents/pkg/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "devevents:event:slug:"

type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisClient connects and pings the server. The caller decides whether
// a failure disables caching or aborts startup.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

type RedisEventCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisEventCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisEventCache {
	return &RedisEventCache{rdb: rdb, ttl: ttl, log: log}
}

func slugKey(slug string) string {
	return keyPrefix + slug
}

func (c *RedisEventCache) Get(ctx context.Context, slug string) (*model.Event, error) {
	data, err := c.rdb.Get(ctx, slugKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached event %q: %w", slug, err)
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		c.log.Warn("Dropping undecodable cache entry", "slug", slug, "error", err)
		_ = c.rdb.Del(ctx, slugKey(slug)).Err()
		return nil, ErrCacheMiss
	}
	return &event, nil
}

func (c *RedisEventCache) Set(ctx context.Context, event *model.Event) error {
	if event == nil || event.Slug == "" {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %q: %w", event.Slug, err)
	}

	if err := c.rdb.Set(ctx, slugKey(event.Slug), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache event %q: %w", event.Slug, err)
	}
	return nil
}

func (c *RedisEventCache) Delete(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, slugKey(slug))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to evict cached events: %w", err)
	}
	return nil
}
