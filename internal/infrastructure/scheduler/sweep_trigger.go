package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepTriggerConfig holds configuration for the periodic sweep trigger
type SweepTriggerConfig struct {
	// ScanInterval is how often a full sweep is submitted
	ScanInterval time.Duration
}

// DefaultSweepTriggerConfig returns default sweep trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		ScanInterval: 15 * time.Minute,
	}
}

// SweepTrigger periodically submits reminder and overdue sweep jobs
type SweepTrigger struct {
	config    SweepTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(config SweepTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *SweepTrigger {
	if config.ScanInterval <= 0 {
		config.ScanInterval = DefaultSweepTriggerConfig().ScanInterval
	}
	return &SweepTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the sweep trigger
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sweep trigger started",
		zap.Duration("scan_interval", t.config.ScanInterval),
	)
	return nil
}

// Stop stops the sweep trigger
func (t *SweepTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sweep trigger stopped")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Sweep trigger stop timed out")
		return ctx.Err()
	}
}

func (t *SweepTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.ScanInterval)
	defer ticker.Stop()

	// Run one sweep on startup so a restart never delays due reminders
	// by a full interval.
	t.trigger(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.trigger(now)
		}
	}
}

func (t *SweepTrigger) trigger(asOf time.Time) {
	if err := t.scheduler.ScheduleSweep(asOf); err != nil {
		t.logger.Error("Failed to schedule sweep",
			zap.Time("as_of", asOf),
			zap.Error(err),
		)
	}
}
