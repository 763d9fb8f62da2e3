package session

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MemoryStore is the in-process Store backend. Expired entries are dropped
// lazily on Resolve and swept periodically by a cron janitor so abandoned
// sessions do not accumulate.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	janitor *cron.Cron
}

type memoryEntry struct {
	principal *Principal
	expiresAt time.Time
}

// NewMemoryStore creates a memory-backed session store. A ttl of zero uses
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		janitor: cron.New(),
	}
	// AddFunc only fails on an unparsable schedule; this one is constant.
	_, _ = s.janitor.AddFunc("@every 10m", s.sweep)
	s.janitor.Start()
	return s
}

// Create issues a token and stores the principal under it.
func (s *MemoryStore) Create(ctx context.Context, p *Principal) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[token] = memoryEntry{
		principal: p,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token, nil
}

// Resolve returns the principal for an unexpired token. Unknown and expired
// tokens both report absent.
func (s *MemoryStore) Resolve(ctx context.Context, token string) (*Principal, bool) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return nil, false
	}
	return entry.principal, true
}

// Destroy removes the session; destroying twice is not an error.
func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live entries, expired ones included until swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the janitor.
func (s *MemoryStore) Close() {
	s.janitor.Stop()
}

// sweep drops expired entries.
func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	for token, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
	s.mu.Unlock()
}
