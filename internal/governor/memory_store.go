package governor

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/courtside/internal/models"
)

// MemoryStore keeps usage records in process memory with one mutex per
// identity. The outer lock only guards entry creation, so concurrent updates
// for different identities never contend with each other.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	mu  sync.Mutex
	rec models.UsageRecord
}

// NewMemoryStore creates an empty in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

// Update applies fn to the identity's record under its per-identity lock.
// fn operates on a copy: an error from fn discards all mutations.
func (s *MemoryStore) Update(ctx context.Context, key string, fn func(rec *models.UsageRecord) error) (*models.UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.entry(key)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	rec := entry.rec
	if rec.IdentityKey == "" {
		rec.IdentityKey = key
	}
	if rec.LastAnalysis != nil {
		last := *rec.LastAnalysis
		rec.LastAnalysis = &last
	}

	if err := fn(&rec); err != nil {
		return nil, err
	}

	rec.UpdatedAt = time.Now().UTC()
	entry.rec = rec
	return &rec, nil
}

// Get returns a copy of the identity's record, or models.ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) (*models.UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// An entry whose record was never committed (every update errored) is
	// indistinguishable from an absent one.
	if entry.rec.IdentityKey == "" {
		return nil, models.ErrNotFound
	}

	rec := entry.rec
	if rec.LastAnalysis != nil {
		last := *rec.LastAnalysis
		rec.LastAnalysis = &last
	}
	return &rec, nil
}

// Count reports the number of tracked identities. Entries whose record was
// never committed are not counted, matching Get.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	entries := make([]*memoryEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	count := 0
	for _, entry := range entries {
		entry.mu.Lock()
		if entry.rec.IdentityKey != "" {
			count++
		}
		entry.mu.Unlock()
	}
	return count, nil
}

func (s *MemoryStore) entry(key string) *memoryEntry {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok = s.entries[key]; ok {
		return entry
	}
	entry = &memoryEntry{}
	s.entries[key] = entry
	return entry
}
