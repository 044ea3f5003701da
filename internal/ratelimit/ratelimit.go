// Package ratelimit implements the per-client sliding window that guards the
// contact endpoint. A window is the ordered set of recent attempt instants for
// one client identifier; an attempt consumes a slot whether or not the
// submission later validates, and the attempt that finds the window full is
// rejected without being recorded.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed bool
	// Count is the number of recorded attempts in the window after the
	// decision was applied.
	Count int
	// RetryAfter is how long until the oldest slot leaves the window. Only
	// meaningful when the attempt was denied.
	RetryAfter time.Duration
}

// Store persists sliding windows keyed by hashed client identifier.
//
// Take must be atomic with respect to concurrent calls for the same
// identifier: the prune, the limit check, and the append happen as one
// operation, so two simultaneous attempts can never both squeeze into the last
// slot.
type Store interface {
	Take(ctx context.Context, identifier string, limit int, window time.Duration) (Decision, error)
	// Peek returns the pruned window's timestamps without consuming a slot.
	Peek(ctx context.Context, identifier string, window time.Duration) ([]time.Time, error)
	// Reset discards the identifier's window.
	Reset(ctx context.Context, identifier string) error
}

// Key hashes a client identifier into the storage key. Raw addresses never
// reach the store.
func Key(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

// Limiter applies the relay policy's window to client identifiers.
type Limiter struct {
	store   Store
	max     int
	window  time.Duration
	enabled bool
	logger  *zap.Logger
}

// NewLimiter creates a Limiter. When enabled is false every attempt is
// allowed.
func NewLimiter(store Store, maxRequests int, window time.Duration, enabled bool, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:   store,
		max:     maxRequests,
		window:  window,
		enabled: enabled,
		logger:  logger,
	}
}

// Take consumes a slot for the identifier, or denies the attempt when the
// window is full. Store failures allow the request through: the limiter exists
// to slow abusers, not to take the contact form down with the store.
func (l *Limiter) Take(ctx context.Context, identifier string) Decision {
	if !l.enabled {
		return Decision{Allowed: true}
	}

	decision, err := l.store.Take(ctx, identifier, l.max, l.window)
	if err != nil {
		l.logger.Warn("rate_limit_store_unavailable",
			zap.Error(err),
		)
		return Decision{Allowed: true}
	}

	return decision
}
