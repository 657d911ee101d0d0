package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateCounter is the subset of *redis.Client used for rate limiting.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client RateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

const enqueueWindow = time.Minute

// EnqueueLimiter is a fixed-window counter of queued jobs per profile. A nil
// client or a non-positive limit disables it.
type EnqueueLimiter struct {
	client RateCounter
	limit  int
}

func NewEnqueueLimiter(client RateCounter, limit int) EnqueueLimiter {
	return EnqueueLimiter{client: client, limit: limit}
}

func enqueueRateKey(profile string) string {
	return fmt.Sprintf("cv:%s:enqueueRate", profile)
}

func (l EnqueueLimiter) allow(ctx context.Context, profile string) (bool, error) {
	if l.client == nil || l.limit <= 0 {
		return true, nil
	}
	count, err := incrWithTTL(ctx, l.client, enqueueRateKey(profile), enqueueWindow)
	if err != nil {
		return false, fmt.Errorf("count enqueue rate: %w", err)
	}
	return count <= int64(l.limit), nil
}
