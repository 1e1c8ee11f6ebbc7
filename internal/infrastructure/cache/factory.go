// Package cache provides the idempotency stores that deduplicate event
// handling and reminder dispatch, backed by Redis or an in-process map.
package cache

import (
	"fmt"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SelectIdempotencyStore picks the store implementation at startup. Redis
// is preferred. When allowFallback is set and Redis is unreachable the
// in-process store is used instead; production deployments should pass
// false because a process-local store cannot deduplicate across
// instances.
func SelectIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger, allowFallback bool) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	store, err := NewRedisIdempotencyStore(addr, cfg.Password, cfg.DB)
	if err == nil {
		logger.Info("using Redis idempotency store")
		return store, nil
	}

	if !allowFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Duplicate events may be processed when running multiple instances.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
