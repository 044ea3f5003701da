package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sliding windows in process memory. It is the store for
// single-instance deployments without Redis, and for tests. A single mutex
// serializes Take, which makes the check-then-append atomic.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory window store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Take implements Store.
func (s *MemoryStore) Take(ctx context.Context, identifier string, limit int, window time.Duration) (Decision, error) {
	key := Key(identifier)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := prune(s.windows[key], now, window)

	if len(kept) >= limit {
		var retryAfter time.Duration
		// A non-positive limit denies with an empty window; there is no
		// oldest slot to derive a retry hint from.
		if len(kept) > 0 {
			retryAfter = kept[0].Add(window).Sub(now)
		}
		s.store(key, kept)
		return Decision{Allowed: false, Count: len(kept), RetryAfter: retryAfter}, nil
	}

	kept = append(kept, now)
	s.windows[key] = kept
	return Decision{Allowed: true, Count: len(kept)}, nil
}

// store writes the pruned window back, dropping the key entirely once it is
// empty so the map does not accumulate one entry per client IP ever seen.
func (s *MemoryStore) store(key string, kept []time.Time) {
	if len(kept) == 0 {
		delete(s.windows, key)
		return
	}
	s.windows[key] = kept
}

// Peek implements Store.
func (s *MemoryStore) Peek(ctx context.Context, identifier string, window time.Duration) ([]time.Time, error) {
	key := Key(identifier)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := prune(s.windows[key], now, window)
	s.store(key, kept)
	out := make([]time.Time, len(kept))
	copy(out, kept)
	return out, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(ctx context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, Key(identifier))
	return nil
}

// prune drops timestamps that have aged out of the window. Timestamps are
// appended in order, so the slice stays sorted.
func prune(timestamps []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	kept := timestamps[:0:len(timestamps)]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
