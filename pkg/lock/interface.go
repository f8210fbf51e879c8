package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the lock is currently held elsewhere.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker provides short-lived advisory locks keyed by string.
// Locks expire on their own after the TTL so a crashed holder cannot
// wedge an incident forever.
type Locker interface {
	// Acquire takes the lock for key, returning a release function.
	// Returns ErrNotAcquired if another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
