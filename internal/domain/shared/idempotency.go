package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs were already handled so a
// redelivered event is not processed twice.
type IdempotencyStore interface {
	// MarkProcessed claims the event ID atomically. True means this caller
	// won the claim; false means someone already processed it. The claim
	// expires after ttl.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID holds an unexpired claim.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls deduplication for a wrapped handler.
type IdempotencyConfig struct {
	// TTL bounds how long a claim lasts. A redelivery after the TTL is
	// processed again.
	TTL time.Duration

	Enabled bool
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
