package cache

import (
	"context"
	"errors"
	"fmt"
	"intersect-service/internal/domain"
	"intersect-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisSolutionCache is a Redis-backed SolutionCache. Entries are msgpack
// encoded solutions with a fixed TTL.
type RedisSolutionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSolutionCache(client *redis.Client, ttl time.Duration) *RedisSolutionCache {
	return &RedisSolutionCache{client: client, ttl: ttl}
}

// OpenRedisSolutionCache connects to redisURL (redis://host:port/db) and pings it.
func OpenRedisSolutionCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSolutionCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, errors.New("open solution cache: redis url is empty")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("open solution cache: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open solution cache: ping: %w", err)
	}

	return NewRedisSolutionCache(client, ttl), nil
}

func (c *RedisSolutionCache) Get(ctx context.Context, key string) (_ domain.Solution, _ bool, err error) {
	defer obs.Time(ctx, "solution.cache.Get")(&err)

	if c.client == nil {
		return domain.Solution{}, false, errors.New("solution cache: client is nil")
	}

	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Solution{}, false, nil
	}
	if err != nil {
		return domain.Solution{}, false, fmt.Errorf("get solution cache: %w", err)
	}

	var sol domain.Solution
	if err := msgpack.Unmarshal(b, &sol); err != nil {
		return domain.Solution{}, false, fmt.Errorf("get solution cache: decode: %w", err)
	}
	return sol, true, nil
}

func (c *RedisSolutionCache) Put(ctx context.Context, key string, sol domain.Solution) error {
	if c.client == nil {
		return errors.New("solution cache: client is nil")
	}

	b, err := msgpack.Marshal(sol)
	if err != nil {
		return fmt.Errorf("put solution cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put solution cache: %w", err)
	}
	return nil
}

func (c *RedisSolutionCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
