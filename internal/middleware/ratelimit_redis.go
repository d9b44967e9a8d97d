package middleware

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter shares one counter per key across instances using
// INCR + EXPIRE in a fixed window. When redis is unreachable it fails
// open.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

func (l *RedisRateLimiter) Allow(key string) (bool, time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	rkey := "ratelimit:" + key
	count, err := l.client.Incr(ctx, rkey).Result()
	if err != nil {
		log.Printf("[ratelimit][redis] incr failed, allowing: %v", err)
		return true, 0
	}
	if count == 1 {
		if err := l.client.Expire(ctx, rkey, l.window).Err(); err != nil {
			log.Printf("[ratelimit][redis] expire failed: %v", err)
		}
	}
	if int(count) > l.limit {
		ttl, err := l.client.TTL(ctx, rkey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl
	}
	return true, 0
}
