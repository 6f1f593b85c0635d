package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrDuplicate is returned when a key is already held.
var ErrDuplicate = errors.New("duplicate request")

// Guard admits the first request for a key and rejects repeats until the key expires or is released.
type Guard interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// MemoryGuard is an in-process Guard used when Redis is not configured.
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		ttl:  ttl,
		keys: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expires, ok := g.keys[key]; ok && now.Before(expires) {
		return ErrDuplicate
	}
	g.keys[key] = now.Add(g.ttl)

	// drop expired keys while we hold the lock
	for k, expires := range g.keys {
		if !now.Before(expires) {
			delete(g.keys, k)
		}
	}
	return nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.keys, key)
	g.mu.Unlock()
	return nil
}
