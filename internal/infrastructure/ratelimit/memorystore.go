package ratelimit

import (
	"context"
	"sync"
	"time"

	"shieldgate/internal/domain/ratelimit"
)

// DefaultStaleAfter is how long after its hour window closes a key is kept.
const DefaultStaleAfter = time.Hour

// MemoryStore keeps window counters in process memory.
//
// Locking: mu guards the entries map only; each entry has its own mutex that
// guards its WindowState. Check never holds an entry lock while taking mu,
// and Sweep always takes mu before an entry lock, so the two cannot deadlock.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*windowEntry
	staleAfter time.Duration
}

type windowEntry struct {
	mu      sync.Mutex
	state   ratelimit.WindowState
	evicted bool
}

type MemoryStoreOption func(*MemoryStore)

// WithStaleAfter sets the grace period after the hour window closes before a
// key is swept.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.staleAfter = d }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:    make(map[string]*windowEntry),
		staleAfter: DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check implements ratelimit.CounterStore. It never fails.
func (s *MemoryStore) Check(_ context.Context, key string, limits ratelimit.Limits, now time.Time) (ratelimit.Decision, error) {
	for {
		ent := s.entry(key)

		ent.mu.Lock()
		if ent.evicted {
			// lost a race with Sweep; the key is gone from the map now
			ent.mu.Unlock()
			continue
		}
		dec := ent.state.Admit(now, limits)
		ent.mu.Unlock()

		return dec, nil
	}
}

func (s *MemoryStore) entry(key string) *windowEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		ent = &windowEntry{}
		s.entries[key] = ent
	}
	return ent
}

// Sweep implements ratelimit.Sweeper.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ent := range s.entries {
		ent.mu.Lock()
		if ent.state.Stale(now, s.staleAfter) {
			ent.evicted = true
			delete(s.entries, key)
			removed++
		}
		ent.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns a copy of the state of key, if tracked.
func (s *MemoryStore) Snapshot(key string) (ratelimit.WindowState, bool) {
	s.mu.Lock()
	ent, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return ratelimit.WindowState{}, false
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.state, !ent.evicted
}

// Reset implements ratelimit.Resetter. It never fails.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.mu.Lock()
		ent.evicted = true
		ent.mu.Unlock()
		delete(s.entries, key)
	}
	return nil
}
