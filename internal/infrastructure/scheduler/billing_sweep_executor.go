package scheduler

import (
	"context"

	billingapp "github.com/invoicehub/backend/internal/application/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider provides a list of tenants for scheduling
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// BillingSweepExecutor runs reminder and overdue sweeps against the billing services
type BillingSweepExecutor struct {
	invoices  *billingapp.InvoiceService
	reminders *billingapp.ReminderService
	tenants   TenantProvider
	logger    *zap.Logger
}

// NewBillingSweepExecutor creates a new BillingSweepExecutor
func NewBillingSweepExecutor(
	invoices *billingapp.InvoiceService,
	reminders *billingapp.ReminderService,
	tenants TenantProvider,
	logger *zap.Logger,
) *BillingSweepExecutor {
	return &BillingSweepExecutor{
		invoices:  invoices,
		reminders: reminders,
		tenants:   tenants,
		logger:    logger,
	}
}

// Execute implements JobExecutor
func (e *BillingSweepExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case SweepKindReminders:
		return e.executeReminderSweep(ctx, job)
	case SweepKindOverdue:
		return e.executeOverdueSweep(ctx, job)
	default:
		return ErrUnknownSweepKind
	}
}

func (e *BillingSweepExecutor) executeReminderSweep(ctx context.Context, job *Job) error {
	result, err := e.reminders.ProcessDueReminders(ctx, job.AsOf)
	if err != nil {
		return err
	}

	e.logger.Info("Reminder sweep finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("scanned", result.Scanned),
		zap.Int("dispatched", result.Dispatched),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return nil
}

func (e *BillingSweepExecutor) executeOverdueSweep(ctx context.Context, job *Job) error {
	tenantIDs, err := e.resolveTenants(ctx, job)
	if err != nil {
		return err
	}

	transitioned := 0
	for _, tenantID := range tenantIDs {
		count, err := e.invoices.ProcessOverdueInvoices(ctx, tenantID, job.AsOf)
		if err != nil {
			// One tenant failing must not starve the rest of the sweep.
			e.logger.Error("Overdue sweep failed for tenant",
				zap.String("job_id", job.ID.String()),
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		transitioned += count
	}

	e.logger.Info("Overdue sweep finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("transitioned", transitioned),
	)
	return nil
}

func (e *BillingSweepExecutor) resolveTenants(ctx context.Context, job *Job) ([]uuid.UUID, error) {
	if job.TenantID != nil {
		return []uuid.UUID{*job.TenantID}, nil
	}
	return e.tenants.GetActiveTenantIDs(ctx)
}
