package live

import (
	"context"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle page session is kept.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore manages state for HTTP connections
type SessionStore interface {
	Get(sessionID string) interface{}
	Set(sessionID string, state interface{})
	Delete(sessionID string)
}

type sessionEntry struct {
	state      interface{}
	lastAccess time.Time
}

// MemorySessionStore is an in-memory session store. Entries idle longer
// than the TTL are dropped on access and by RunJanitor.
type MemorySessionStore struct {
	sessions map[string]*sessionEntry
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	onExpire func(n int)
}

// SessionOption configures a MemorySessionStore.
type SessionOption func(*MemorySessionStore)

// WithSessionClock overrides the time source.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *MemorySessionStore) { s.now = now }
}

// WithExpireHook is called with the number of sessions each sweep removed.
func WithExpireHook(fn func(n int)) SessionOption {
	return func(s *MemorySessionStore) { s.onExpire = fn }
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore(ttl time.Duration, opts ...SessionOption) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &MemorySessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a session and refreshes its last access time
func (s *MemorySessionStore) Get(sessionID string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	now := s.now()
	if now.Sub(entry.lastAccess) > s.ttl {
		delete(s.sessions, sessionID)
		s.expired(1)
		return nil
	}
	entry.lastAccess = now
	return entry.state
}

// Set stores a session
func (s *MemorySessionStore) Set(sessionID string, state interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &sessionEntry{state: state, lastAccess: s.now()}
}

// Delete removes a session
func (s *MemorySessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	count := 0
	for id, entry := range s.sessions {
		if entry.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			count++
		}
	}
	s.expired(count)
	return count
}

// RunJanitor sweeps every interval until ctx is done.
func (s *MemorySessionStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = s.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// expired must be called with s.mu held.
func (s *MemorySessionStore) expired(n int) {
	if n > 0 && s.onExpire != nil {
		s.onExpire(n)
	}
}
