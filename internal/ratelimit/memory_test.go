package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMemoryStoreTake(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	window := time.Hour

	for i := 1; i <= 5; i++ {
		decision, err := store.Take(ctx, "198.51.100.1", 5, window)
		if err != nil {
			t.Fatalf("Take %d failed: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("Expected attempt %d to be allowed", i)
		}
		if decision.Count != i {
			t.Errorf("Expected count %d, got %d", i, decision.Count)
		}
		current = current.Add(time.Minute)
	}

	// 6th attempt within the window is denied and must not be recorded.
	decision, err := store.Take(ctx, "198.51.100.1", 5, window)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("Expected 6th attempt to be denied")
	}
	if decision.Count != 5 {
		t.Errorf("Expected count to stay at 5, got %d", decision.Count)
	}
	if decision.RetryAfter <= 0 {
		t.Errorf("Expected positive RetryAfter, got %v", decision.RetryAfter)
	}

	timestamps, err := store.Peek(ctx, "198.51.100.1", window)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if len(timestamps) != 5 {
		t.Errorf("Denied attempt mutated the window: got %d timestamps", len(timestamps))
	}
}

func TestMemoryStoreZeroLimit(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	// A non-positive limit denies every attempt. The window is empty, so
	// there is no oldest slot and no retry hint.
	decision, err := store.Take(ctx, "198.51.100.9", 0, time.Hour)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("Expected attempt to be denied with limit 0")
	}
	if decision.Count != 0 {
		t.Errorf("Expected count 0, got %d", decision.Count)
	}
	if decision.RetryAfter != 0 {
		t.Errorf("Expected zero RetryAfter for an empty window, got %v", decision.RetryAfter)
	}
}

func TestMemoryStoreDropsEmptyWindows(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	window := time.Hour

	for _, id := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		if _, err := store.Take(ctx, id, 5, window); err != nil {
			t.Fatalf("Take failed: %v", err)
		}
	}
	if len(store.windows) != 3 {
		t.Fatalf("Expected 3 tracked windows, got %d", len(store.windows))
	}

	// Once every slot has aged out, touching the identifier must remove its
	// key instead of keeping an empty slice forever.
	current = current.Add(2 * time.Hour)
	for _, id := range []string{"198.51.100.1", "198.51.100.2"} {
		timestamps, err := store.Peek(ctx, id, window)
		if err != nil {
			t.Fatalf("Peek failed: %v", err)
		}
		if len(timestamps) != 0 {
			t.Errorf("Expected expired window for %s, got %d timestamps", id, len(timestamps))
		}
	}
	if len(store.windows) != 1 {
		t.Errorf("Expected expired windows to be dropped, got %d keys", len(store.windows))
	}
}

func TestMemoryStoreWindowSlides(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	window := time.Hour

	for i := 0; i < 5; i++ {
		if decision, _ := store.Take(ctx, "client", 5, window); !decision.Allowed {
			t.Fatalf("Expected attempt %d to be allowed", i+1)
		}
		current = current.Add(time.Minute)
	}

	if decision, _ := store.Take(ctx, "client", 5, window); decision.Allowed {
		t.Fatal("Expected attempt inside the full window to be denied")
	}

	// Move past the oldest timestamp only; exactly one slot frees up.
	current = current.Add(55*time.Minute + 30*time.Second)

	decision, _ := store.Take(ctx, "client", 5, window)
	if !decision.Allowed {
		t.Fatal("Expected attempt after the oldest slot expired to be allowed")
	}

	if decision, _ := store.Take(ctx, "client", 5, window); decision.Allowed {
		t.Fatal("Expected the window to be full again")
	}
}

func TestMemoryStoreIdentifiersIndependent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if decision, _ := store.Take(ctx, "first", 5, time.Hour); !decision.Allowed {
			t.Fatalf("Expected attempt %d for 'first' to be allowed", i+1)
		}
	}
	if decision, _ := store.Take(ctx, "first", 5, time.Hour); decision.Allowed {
		t.Fatal("Expected 'first' to be limited")
	}

	if decision, _ := store.Take(ctx, "second", 5, time.Hour); !decision.Allowed {
		t.Fatal("Expected 'second' to be unaffected by 'first'")
	}
}

func TestMemoryStoreReset(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		store.Take(ctx, "client", 5, time.Hour)
	}
	if decision, _ := store.Take(ctx, "client", 5, time.Hour); decision.Allowed {
		t.Fatal("Expected client to be limited before reset")
	}

	if err := store.Reset(ctx, "client"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if decision, _ := store.Take(ctx, "client", 5, time.Hour); !decision.Allowed {
		t.Fatal("Expected client to be allowed after reset")
	}
}

func TestMemoryStoreConcurrentTake(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	const attempts = 50
	const limit = 5

	var wg sync.WaitGroup
	allowed := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := store.Take(ctx, "client", limit, time.Hour)
			if err != nil {
				t.Errorf("Take failed: %v", err)
				return
			}
			if decision.Allowed {
				allowed <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(allowed)

	count := 0
	for range allowed {
		count++
	}
	if count != limit {
		t.Errorf("Expected exactly %d allowed attempts, got %d", limit, count)
	}
}

func TestKeyHashesIdentifier(t *testing.T) {
	t.Parallel()

	key := Key("203.0.113.7")
	if key == "203.0.113.7" {
		t.Error("Expected identifier to be hashed")
	}
	if len(key) != 64 {
		t.Errorf("Expected 64-char sha256 hex key, got %d chars", len(key))
	}
	if Key("203.0.113.7") != key {
		t.Error("Expected hashing to be deterministic")
	}
}

type failingStore struct{}

func (failingStore) Take(ctx context.Context, identifier string, limit int, window time.Duration) (Decision, error) {
	return Decision{}, errors.New("store down")
}

func (failingStore) Peek(ctx context.Context, identifier string, window time.Duration) ([]time.Time, error) {
	return nil, errors.New("store down")
}

func (failingStore) Reset(ctx context.Context, identifier string) error {
	return errors.New("store down")
}

func TestLimiter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("disabled allows everything", func(t *testing.T) {
		t.Parallel()

		limiter := NewLimiter(NewMemoryStore(), 1, time.Hour, false, zap.NewNop())
		for i := 0; i < 10; i++ {
			if decision := limiter.Take(ctx, "client"); !decision.Allowed {
				t.Fatal("Expected disabled limiter to allow all attempts")
			}
		}
	})

	t.Run("enforces the window", func(t *testing.T) {
		t.Parallel()

		limiter := NewLimiter(NewMemoryStore(), 2, time.Hour, true, zap.NewNop())
		if decision := limiter.Take(ctx, "client"); !decision.Allowed {
			t.Fatal("Expected first attempt to be allowed")
		}
		if decision := limiter.Take(ctx, "client"); !decision.Allowed {
			t.Fatal("Expected second attempt to be allowed")
		}
		if decision := limiter.Take(ctx, "client"); decision.Allowed {
			t.Fatal("Expected third attempt to be denied")
		}
	})

	t.Run("fails open on store errors", func(t *testing.T) {
		t.Parallel()

		limiter := NewLimiter(failingStore{}, 1, time.Hour, true, zap.NewNop())
		if decision := limiter.Take(ctx, "client"); !decision.Allowed {
			t.Fatal("Expected limiter to fail open when the store errors")
		}
	})
}
