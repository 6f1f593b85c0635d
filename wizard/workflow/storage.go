package workflow

import (
	"context"
	"sync"
	"time"
)

// MemoryStateStorage keeps sessions in process memory. A session expires
// after ttl without updates. Nothing is persisted.
type MemoryStateStorage struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]*SessionState
	now    func() time.Time
}

func NewMemoryStateStorage(ttl time.Duration) *MemoryStateStorage {
	return &MemoryStateStorage{
		ttl:    ttl,
		states: make(map[string]*SessionState),
		now:    time.Now,
	}
}

func (s *MemoryStateStorage) expired(state *SessionState) bool {
	return s.ttl > 0 && s.now().Sub(state.UpdatedAt) > s.ttl
}

func (s *MemoryStateStorage) Save(_ context.Context, state *SessionState) error {
	s.mu.Lock()
	s.states[state.ID] = state.Clone()
	s.mu.Unlock()
	return nil
}

// Load returns nil when the session does not exist or has expired.
func (s *MemoryStateStorage) Load(_ context.Context, sessionID string) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	if s.expired(state) {
		delete(s.states, sessionID)
		return nil, nil
	}
	return state.Clone(), nil
}

func (s *MemoryStateStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStateStorage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, state := range s.states {
		if s.expired(state) {
			delete(s.states, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *MemoryStateStorage) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
