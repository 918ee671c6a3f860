package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"residence-be-svc/pkg/logger"
)

const blacklistKeyPrefix = "token_blacklist:"

// RedisCommander is the subset of the redis client the blacklist uses
type RedisCommander interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisTokenBlacklist shares revocations between instances. Keys expire with the
// token lifetime so the set does not grow without bound.
type redisTokenBlacklist struct {
	client  RedisCommander
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	logger  *logger.Logger
}

// NewRedisTokenBlacklist creates a redis-backed TokenBlacklist
func NewRedisTokenBlacklist(client RedisCommander, breaker *gobreaker.CircuitBreaker, ttl time.Duration, logger *logger.Logger) TokenBlacklist {
	return &redisTokenBlacklist{
		client:  client,
		breaker: breaker,
		ttl:     ttl,
		logger:  logger,
	}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}

func (b *redisTokenBlacklist) Revoke(ctx context.Context, token string) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.client.Set(ctx, blacklistKey(token), "1", b.ttl).Err()
	})
	if err != nil {
		b.logger.WithError(err).Error("Failed to revoke token in redis")
		return err
	}
	return nil
}

func (b *redisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.client.Exists(ctx, blacklistKey(token)).Result()
	})
	if err != nil {
		b.logger.WithError(err).Error("Failed to check token blacklist in redis")
		return false, err
	}
	return result.(int64) > 0, nil
}
