package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "taskdigest:lease:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker stores leases as expiring Redis keys.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker connects to the Redis instance at url.
func NewRedisLocker(url string) (*RedisLocker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisLockerFromClient(redis.NewClient(opts)), nil
}

// NewRedisLockerFromClient wraps an existing client.
func NewRedisLockerFromClient(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (string, error) {
	token := newToken()
	ok, err := l.client.SetNX(ctx, keyPrefix+name, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("lease: acquire %s: %w", name, err)
	}
	if !ok {
		return "", ErrLeaseHeld
	}
	return token, nil
}

func (l *RedisLocker) Release(ctx context.Context, name, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + name}, token).Err(); err != nil {
		return fmt.Errorf("lease: release %s: %w", name, err)
	}
	return nil
}

// Close closes the underlying client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
