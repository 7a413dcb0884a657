// Package lease guards the digest run so that at most one instance sends at a time.
package lease

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLeaseHeld is returned by Acquire while another holder owns an unexpired lease.
var ErrLeaseHeld = errors.New("lease held by another run")

// Locker hands out named, expiring leases.
type Locker interface {
	// Acquire claims name for ttl and returns the token needed to release it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (string, error)
	// Release drops the lease if it is still held with token.
	Release(ctx context.Context, name, token string) error
}

func newToken() string {
	return uuid.NewString()
}
