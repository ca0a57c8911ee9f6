package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careerhub/internal/observability"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "careerhub"

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.LocalStoreErrors.WithLabelValues("redis", cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.LocalStoreErrors.WithLabelValues("redis", "pipeline").Inc()
		}
		return err
	}
}

// RedisStore keeps values under careerhub:<namespace>:<key>.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr, which may be host:port or a redis:// URL.
func NewRedisStore(addr string) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(namespace, key string) string {
	return keyPrefix + ":" + namespace + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (value string, err error) {
	ctx, span := observability.TraceStoreOperation(ctx, "redis", "get")
	defer func() { observability.EndSpan(span, err) }()

	value, err = s.client.Get(ctx, redisKey(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *RedisStore) Set(ctx context.Context, namespace, key, value string, ttl time.Duration) (err error) {
	ctx, span := observability.TraceStoreOperation(ctx, "redis", "set")
	defer func() { observability.EndSpan(span, err) }()

	return s.client.Set(ctx, redisKey(namespace, key), value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) (err error) {
	ctx, span := observability.TraceStoreOperation(ctx, "redis", "del")
	defer func() { observability.EndSpan(span, err) }()

	return s.client.Del(ctx, redisKey(namespace, key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
