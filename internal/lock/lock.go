// Package lock provides advisory file locking for commands that append IDs
// to a shared file.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// Suffix is appended to a target file's path to name its lock file.
const Suffix = ".lock"

// DefaultRetryDelay is the interval between lock attempts while waiting.
const DefaultRetryDelay = 20 * time.Millisecond

// ErrAlreadyLocked is returned when another timeid process holds the lock
// for longer than the caller is willing to wait.
var ErrAlreadyLocked = errors.New("another timeid command holds the lock")

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLock() (bool, error)
	TryLockContext(ctx context.Context, retryDelay time.Duration) (bool, error)
	Unlock() error
}

// Lock wraps a Flocker to provide bounded-wait advisory locking.
type Lock struct {
	flocker    Flocker
	retryDelay time.Duration
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f, retryDelay: DefaultRetryDelay}
}

// NewFromPath creates a Lock backed by a file at the given path.
func NewFromPath(path string) *Lock {
	return New(flock.New(path))
}

// ForFile creates a Lock guarding target, backed by target+Suffix.
func ForFile(target string) *Lock {
	return NewFromPath(target + Suffix)
}

// Acquire waits up to timeout for the lock, retrying until it is free. A zero
// timeout makes a single attempt. It returns ErrAlreadyLocked if the wait
// runs out, the context's error if ctx ends first, or wraps any underlying
// error from the Flocker.
func (l *Lock) Acquire(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var ok bool
	var err error
	if timeout <= 0 {
		ok, err = l.flocker.TryLock()
	} else {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = l.flocker.TryLockContext(waitCtx, l.retryDelay)
	}
	switch {
	case ok:
		return nil
	case err == nil, errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return ErrAlreadyLocked
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("acquiring lock: %w", err)
	}
}

// Unlock releases the advisory lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}
