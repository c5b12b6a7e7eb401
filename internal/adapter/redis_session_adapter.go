package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lingua-bot/internal/cache"
	"lingua-bot/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSessionAdapter implements domain.SessionStore on Redis. Sessions expire
// after ttl of inactivity.
type RedisSessionAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionAdapter(client *redis.Client, ttl time.Duration) *RedisSessionAdapter {
	return &RedisSessionAdapter{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return cache.GenerateCacheKey("session", "state", strconv.FormatInt(userID, 10))
}

// Get translates redis.Nil into an absent session.
func (r *RedisSessionAdapter) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (r *RedisSessionAdapter) Save(ctx context.Context, userID int64, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(userID), string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisSessionAdapter) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Ping checks the health of the Redis server.
func (r *RedisSessionAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// RedisLockAdapter hands out best-effort exclusive locks with SETNX.
type RedisLockAdapter struct {
	client *redis.Client
}

func NewRedisLockAdapter(client *redis.Client) *RedisLockAdapter {
	return &RedisLockAdapter{client: client}
}

// Acquire returns false when another holder owns key.
func (r *RedisLockAdapter) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Release drops key so the next Acquire succeeds.
func (r *RedisLockAdapter) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
