package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type localEntry struct {
	token   string
	expires time.Time
}

// Local is an in-process Locker for single-instance deployments and tests.
type Local struct {
	mu      sync.Mutex
	entries map[string]localEntry
	wait    time.Duration
	retry   time.Duration
	now     func() time.Time
}

func NewLocal(wait time.Duration) *Local {
	return &Local{
		entries: make(map[string]localEntry),
		wait:    wait,
		retry:   10 * time.Millisecond,
		now:     time.Now,
	}
}

func (l *Local) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	err := poll(ctx, l.wait, l.retry, func() (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		now := l.now()
		if e, ok := l.entries[key]; ok && now.Before(e.expires) {
			return false, nil
		}
		l.entries[key] = localEntry{token: token, expires: now.Add(ttl)}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if e, ok := l.entries[key]; ok && e.token == token {
			delete(l.entries, key)
		}
	}, nil
}
