package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient fakes the Set and Exists commands of a redis client
type RedisClient struct {
	mu   sync.Mutex
	Keys map[string]time.Duration
	Err  error
}

func NewRedisClient() *RedisClient {
	return &RedisClient{Keys: map[string]time.Duration{}}
}

func (m *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if m.Err != nil {
		cmd.SetErr(m.Err)
		return cmd
	}
	m.Keys[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *RedisClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewIntCmd(ctx, "exists")
	if m.Err != nil {
		cmd.SetErr(m.Err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.Keys[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}
