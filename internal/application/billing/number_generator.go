package billing

import (
	"context"
	"time"

	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NumberGenerator allocates human-readable document numbers from the
// per-period sequence counter. When the counter store is unreachable it
// falls back to an emergency number instead of failing: document
// creation must never block on numbering.
type NumberGenerator struct {
	sequences billing.SequenceRepository
	logger    *zap.Logger
	metrics   *telemetry.BillingMetrics
}

// NumberGeneratorOption is a functional option for configuring NumberGenerator
type NumberGeneratorOption func(*NumberGenerator)

// WithNumberGeneratorMetrics attaches billing metrics so emergency
// fallbacks are observable
func WithNumberGeneratorMetrics(metrics *telemetry.BillingMetrics) NumberGeneratorOption {
	return func(g *NumberGenerator) {
		g.metrics = metrics
	}
}

// NewNumberGenerator creates a new NumberGenerator
func NewNumberGenerator(sequences billing.SequenceRepository, logger *zap.Logger, opts ...NumberGeneratorOption) *NumberGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &NumberGenerator{
		sequences: sequences,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate allocates the next document number for the type and issue
// period, e.g. "INV-2508-001". It never returns an error: if the
// sequence store is unavailable the emergency fallback number is
// returned and the outage is logged and counted.
func (g *NumberGenerator) Generate(ctx context.Context, tenantID uuid.UUID, docType billing.DocumentType, issueDate time.Time) string {
	bucket := billing.SequenceBucket(docType, issueDate)

	seq, err := g.sequences.Next(ctx, tenantID, bucket)
	if err != nil {
		number := billing.EmergencyDocumentNumber(docType, time.Now())
		g.logger.Error("Sequence store unavailable, issuing emergency document number",
			zap.String("tenant_id", tenantID.String()),
			zap.String("bucket", bucket),
			zap.String("number", number),
			zap.Error(err),
		)
		if g.metrics != nil {
			g.metrics.RecordEmergencyNumber(ctx, tenantID, string(docType))
		}
		return number
	}

	return billing.FormatDocumentNumber(docType, issueDate, seq)
}
