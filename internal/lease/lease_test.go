package lease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pathakanu/taskDigest/internal/database"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDBLocker(t *testing.T) *DBLocker {
	t.Helper()
	db, err := database.OpenMemory(t.Name(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return NewDBLocker(db)
}

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	locker := NewRedisLockerFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = locker.Close() })
	return locker, srv
}

func TestLockers(t *testing.T) {
	cases := map[string]func(t *testing.T) Locker{
		"db": func(t *testing.T) Locker { return newDBLocker(t) },
		"redis": func(t *testing.T) Locker {
			l, _ := newRedisLocker(t)
			return l
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			locker := build(t)

			token, err := locker.Acquire(ctx, "digest", time.Minute)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			_, err = locker.Acquire(ctx, "digest", time.Minute)
			assert.True(t, errors.Is(err, ErrLeaseHeld), "second acquire: %v", err)

			other, err := locker.Acquire(ctx, "other", time.Minute)
			require.NoError(t, err)
			require.NoError(t, locker.Release(ctx, "other", other))

			require.NoError(t, locker.Release(ctx, "digest", "not-the-holder"))
			_, err = locker.Acquire(ctx, "digest", time.Minute)
			assert.True(t, errors.Is(err, ErrLeaseHeld), "release with wrong token must keep the lease")

			require.NoError(t, locker.Release(ctx, "digest", token))
			again, err := locker.Acquire(ctx, "digest", time.Minute)
			require.NoError(t, err)
			assert.NotEqual(t, token, again)
		})
	}
}

func TestDBLockerExpiredLeaseCanBeTaken(t *testing.T) {
	ctx := context.Background()
	locker := newDBLocker(t)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	locker.now = func() time.Time { return now }

	_, err := locker.Acquire(ctx, "digest", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = locker.Acquire(ctx, "digest", time.Minute)
	require.NoError(t, err)
}

func TestRedisLockerExpiredLeaseCanBeTaken(t *testing.T) {
	ctx := context.Background()
	locker, srv := newRedisLocker(t)

	_, err := locker.Acquire(ctx, "digest", time.Minute)
	require.NoError(t, err)

	srv.FastForward(2 * time.Minute)
	_, err = locker.Acquire(ctx, "digest", time.Minute)
	require.NoError(t, err)
}

func TestNewRedisLockerRejectsBadURL(t *testing.T) {
	_, err := NewRedisLocker("not a url")
	require.Error(t, err)
}
