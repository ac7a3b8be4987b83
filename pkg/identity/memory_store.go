package identity

import (
	"context"
	"sync"
	"time"

	"github.com/painelhub/accesskit/pkg/authz"
)

// sessionEntry pairs a stored session with its absolute expiry.
type sessionEntry struct {
	session   *authz.Session
	expiresAt time.Time
}

// MemorySessionStore implements SessionStore with an in-memory map.
// Expired entries are evicted lazily on read and periodically by a cleanup
// goroutine when a positive interval is given.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	ticker  *time.Ticker
	done    chan struct{}
}

// NewMemorySessionStore creates an in-memory session store. A positive
// cleanupInterval starts a background eviction loop; stop it with Close.
func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	store := &MemorySessionStore{
		entries: make(map[string]sessionEntry),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Save stores the session under the token for the given lifetime.
func (m *MemorySessionStore) Save(ctx context.Context, token string, session *authz.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[token] = sessionEntry{
		session:   copySession(session),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the session for the token, evicting it when expired.
func (m *MemorySessionStore) Get(ctx context.Context, token string) (*authz.Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, token)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	return copySession(entry.session), nil
}

// Delete removes the session. Unknown tokens are a no-op.
func (m *MemorySessionStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, token)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the cleanup goroutine.
func (m *MemorySessionStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
	return nil
}

func (m *MemorySessionStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.deleteExpired()
		case <-m.done:
			return
		}
	}
}

func (m *MemorySessionStore) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, token)
		}
	}
}

// copySession returns a deep copy so callers cannot mutate stored state.
func copySession(s *authz.Session) *authz.Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.TenantID != nil {
		tenantID := *s.TenantID
		out.TenantID = &tenantID
	}
	out.Permissions = make([]string, len(s.Permissions))
	copy(out.Permissions, s.Permissions)
	return &out
}

// Compile-time interface assertion
var _ SessionStore = (*MemorySessionStore)(nil)
