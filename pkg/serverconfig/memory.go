package serverconfig

import (
	"context"
	"sync"
)

// MemoryStore keeps settings in process memory. Useful for development and
// tests; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Settings
}

// NewMemoryStore creates an empty in-memory settings store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Settings),
	}
}

// GetConfig returns a copy of the guild's settings, empty when unset.
func (s *MemoryStore) GetConfig(ctx context.Context, guildID string) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[guildID]
	if !ok {
		return Settings{}, nil
	}
	return clone(record), nil
}

// MergeUpdate merges changes into the guild's record, creating it if absent.
func (s *MemoryStore) MergeUpdate(ctx context.Context, guildID string, changes Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[guildID]
	if !ok {
		record = make(Settings, len(changes))
		s.records[guildID] = record
	}
	for k, v := range clone(changes) {
		record[k] = v
	}
	return nil
}
