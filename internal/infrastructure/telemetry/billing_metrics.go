package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BillingMetrics provides business metrics for the billing system.
// It tracks document creation, payments, reminder dispatches, and the
// emergency numbering fallback used when the sequence store is down.
type BillingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	invoiceCreatedTotal     *Counter
	invoicePaidTotal        *Counter
	emergencyNumberTotal    *Counter
	reminderDispatchedTotal *Counter
	proposalDecidedTotal    *Counter

	// Gauge metrics (point-in-time values)
	overdueInvoiceCount *Gauge
	overdueAmountTotal  *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	overdueProvider OverdueMetricsProvider
}

// OverdueMetricsProvider provides overdue invoice data for periodic
// metrics collection. The interface keeps the telemetry layer free of
// a direct dependency on the billing domain.
type OverdueMetricsProvider interface {
	// CountOverdue returns the number of past-due unpaid invoices for a tenant
	CountOverdue(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// SumOverdue returns the total past-due unpaid amount for a tenant
	SumOverdue(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
}

// BillingMetricsConfig holds configuration for billing metrics.
type BillingMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	OverdueProvider OverdueMetricsProvider
}

// NewBillingMetrics creates a new BillingMetrics instance.
func NewBillingMetrics(cfg BillingMetricsConfig) (*BillingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BillingMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		overdueProvider: cfg.OverdueProvider,
	}

	var err error

	bm.invoiceCreatedTotal, err = NewCounter(
		cfg.Meter,
		"billing_invoice_created_total",
		"Total number of invoices created",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoicePaidTotal, err = NewCounter(
		cfg.Meter,
		"billing_invoice_paid_total",
		"Total number of invoices marked paid",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.emergencyNumberTotal, err = NewCounter(
		cfg.Meter,
		"billing_emergency_number_total",
		"Total number of emergency fallback document numbers issued",
		"{numbers}",
	)
	if err != nil {
		return nil, err
	}

	bm.reminderDispatchedTotal, err = NewCounter(
		cfg.Meter,
		"billing_reminder_dispatched_total",
		"Total number of payment reminders dispatched",
		"{reminders}",
	)
	if err != nil {
		return nil, err
	}

	bm.proposalDecidedTotal, err = NewCounter(
		cfg.Meter,
		"billing_proposal_decided_total",
		"Total number of proposal accept/reject decisions",
		"{proposals}",
	)
	if err != nil {
		return nil, err
	}

	bm.overdueInvoiceCount, err = NewGauge(
		cfg.Meter,
		"billing_overdue_invoice_count",
		"Number of past-due unpaid invoices",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.overdueAmountTotal, err = NewFloatGauge(
		cfg.Meter,
		"billing_overdue_amount_total",
		"Total past-due unpaid amount",
		"{currency}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// RecordInvoiceCreated records an invoice creation event.
func (bm *BillingMetrics) RecordInvoiceCreated(ctx context.Context, tenantID uuid.UUID) {
	bm.invoiceCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordInvoicePaid records a completed invoice payment.
func (bm *BillingMetrics) RecordInvoicePaid(ctx context.Context, tenantID uuid.UUID, paymentMethod string) {
	bm.invoicePaidTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordEmergencyNumber records one use of the fallback numbering path.
// A non-zero rate of this metric means the sequence store is degraded.
func (bm *BillingMetrics) RecordEmergencyNumber(ctx context.Context, tenantID uuid.UUID, documentType string) {
	bm.emergencyNumberTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// RecordReminderDispatched records a payment reminder dispatch outcome.
func (bm *BillingMetrics) RecordReminderDispatched(ctx context.Context, tenantID uuid.UUID, channel, deliveryStatus string) {
	bm.reminderDispatchedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrReminderChannel.String(channel),
		AttrDeliveryStatus.String(deliveryStatus),
	)
}

// RecordProposalDecision records a client accept/reject decision.
func (bm *BillingMetrics) RecordProposalDecision(ctx context.Context, tenantID uuid.UUID, decision string) {
	bm.proposalDecidedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDecision.String(decision),
	)
}

// RecordOverdueCount records the current count of past-due unpaid invoices.
func (bm *BillingMetrics) RecordOverdueCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.overdueInvoiceCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordOverdueAmount records the current total past-due unpaid amount.
func (bm *BillingMetrics) RecordOverdueAmount(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	bm.overdueAmountTotal.Record(ctx, amount.InexactFloat64(),
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (bm *BillingMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BillingMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectOverdueMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic billing metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic billing metrics collection")
			return
		case <-ticker.C:
			bm.collectOverdueMetrics(ctx, tenantProvider)
		}
	}
}

// collectOverdueMetrics collects overdue gauge metrics for all tenants.
func (bm *BillingMetrics) collectOverdueMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.overdueProvider == nil {
		bm.logger.Debug("No overdue provider configured, skipping overdue metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantOverdueMetrics(ctx, tenantID)
	}
}

// collectTenantOverdueMetrics collects overdue metrics for a single tenant.
func (bm *BillingMetrics) collectTenantOverdueMetrics(ctx context.Context, tenantID uuid.UUID) {
	count, err := bm.overdueProvider.CountOverdue(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to count overdue invoices for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueCount(ctx, tenantID, count)
	}

	amount, err := bm.overdueProvider.SumOverdue(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to sum overdue amount for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueAmount(ctx, tenantID, amount)
	}
}

// Stop stops the periodic collection.
func (bm *BillingMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBillingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
