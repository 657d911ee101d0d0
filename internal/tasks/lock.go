package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockClient is the subset of *redis.Client the export lock uses.
type LockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// ExportLock is the per-profile busy flag shared by the API and the worker.
// The API takes it before enqueueing and the worker releases it when the
// task ends. The TTL frees profiles whose worker died mid-task.
type ExportLock struct {
	client LockClient
	ttl    time.Duration
}

func NewExportLock(client LockClient, ttl time.Duration) *ExportLock {
	return &ExportLock{client: client, ttl: ttl}
}

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// ExportLockKey is the redis key of a profile's lock.
func ExportLockKey(profile string) string {
	return fmt.Sprintf("cv:%s:exportLock", profile)
}

// Acquire reports false when another export holds the lock.
func (l *ExportLock) Acquire(ctx context.Context, profile, exportID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, ExportLockKey(profile), exportID, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire export lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock if exportID still holds it. A lock that expired and
// was taken by a newer export is left alone.
func (l *ExportLock) Release(ctx context.Context, profile, exportID string) error {
	err := l.client.Eval(ctx, releaseScript, []string{ExportLockKey(profile)}, exportID).Err()
	if err != nil {
		return fmt.Errorf("release export lock: %w", err)
	}
	return nil
}

// Held reports whether an export is running for profile.
func (l *ExportLock) Held(ctx context.Context, profile string) (bool, error) {
	n, err := l.client.Exists(ctx, ExportLockKey(profile)).Result()
	if err != nil {
		return false, fmt.Errorf("check export lock: %w", err)
	}
	return n > 0, nil
}
