package billing

import (
	"context"

	"github.com/invoicehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityHandler records every billing domain event as a structured
// audit log entry. It subscribes to all event types so new events are
// captured without further wiring.
type ActivityHandler struct {
	logger *zap.Logger
}

// NewActivityHandler creates a new handler for billing activity logging
func NewActivityHandler(logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{logger: logger}
}

// EventTypes returns an empty slice, subscribing to all events
func (h *ActivityHandler) EventTypes() []string {
	return nil
}

// Handle writes one audit entry per event
func (h *ActivityHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("Billing activity",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}
