// Package lock provides short-lived named locks used to serialize imports per tenant.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when the lock stays taken for the whole wait window.
var ErrLockHeld = errors.New("lock is held by another owner")

const defaultRetry = 50 * time.Millisecond

// Locker hands out exclusive named locks. The lock expires after ttl even when
// release is never called.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// poll calls try until it succeeds, fails, the wait window closes or ctx ends.
func poll(ctx context.Context, wait, retry time.Duration, try func() (bool, error)) error {
	if retry <= 0 {
		retry = defaultRetry
	}
	deadline := time.Now().Add(wait)
	for {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrLockHeld
		}

		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Nop never blocks. It leaves concurrent writers to the store constraints.
type Nop struct{}

func (Nop) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}
