package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReminderNotifier delivers a payment reminder over a channel. A nil
// return means the message was handed off to the provider.
type ReminderNotifier interface {
	Notify(ctx context.Context, channel billing.ReminderChannel, recipients []string, message string) error
}

// reminderDispatchTTL bounds the idempotency window. One calendar day
// is enough because dispatch keys include the date.
const reminderDispatchTTL = 48 * time.Hour

// ReminderService sweeps invoices whose next reminder date has
// arrived and dispatches at most one reminder per invoice per day.
// The per-day guard is enforced twice: by the repository query and by
// a distributed idempotency key, so overlapping sweeps from multiple
// instances never double send.
type ReminderService struct {
	invoiceRepo    billing.InvoiceRepository
	notifier       ReminderNotifier
	dispatchGuard  shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	metrics        *telemetry.BillingMetrics
	logger         *zap.Logger
}

// ReminderServiceOption is a functional option for configuring ReminderService
type ReminderServiceOption func(*ReminderService)

// WithReminderDispatchGuard attaches a distributed idempotency store
func WithReminderDispatchGuard(store shared.IdempotencyStore) ReminderServiceOption {
	return func(s *ReminderService) {
		s.dispatchGuard = store
	}
}

// WithReminderEventPublisher attaches a domain event publisher
func WithReminderEventPublisher(publisher shared.EventPublisher) ReminderServiceOption {
	return func(s *ReminderService) {
		s.eventPublisher = publisher
	}
}

// WithReminderMetrics attaches billing metrics
func WithReminderMetrics(metrics *telemetry.BillingMetrics) ReminderServiceOption {
	return func(s *ReminderService) {
		s.metrics = metrics
	}
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	invoiceRepo billing.InvoiceRepository,
	notifier ReminderNotifier,
	logger *zap.Logger,
	opts ...ReminderServiceOption,
) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReminderService{
		invoiceRepo: invoiceRepo,
		notifier:    notifier,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReminderSweepResult summarizes one sweep run
type ReminderSweepResult struct {
	Scanned    int `json:"scanned"`
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// ProcessDueReminders finds invoices whose next reminder date has
// arrived and dispatches a reminder for each. A delivery failure is
// recorded on the invoice and does not stop the sweep.
func (s *ReminderService) ProcessDueReminders(ctx context.Context, now time.Time) (ReminderSweepResult, error) {
	var result ReminderSweepResult

	invoices, err := s.invoiceRepo.FindDueReminders(ctx, now)
	if err != nil {
		return result, err
	}
	result.Scanned = len(invoices)

	for i := range invoices {
		inv := &invoices[i]

		if !s.claimDispatch(ctx, inv, now) {
			result.Skipped++
			continue
		}

		if err := s.dispatchReminder(ctx, inv, now); err != nil {
			result.Failed++
			s.logger.Error("Reminder dispatch failed",
				zap.String("tenant_id", inv.TenantID.String()),
				zap.String("invoice_id", inv.ID.String()),
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		result.Dispatched++
	}

	s.logger.Info("Reminder sweep completed",
		zap.Int("scanned", result.Scanned),
		zap.Int("dispatched", result.Dispatched),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// claimDispatch takes the per-invoice per-day dispatch slot. Without a
// guard configured the repository query is the only protection.
func (s *ReminderService) claimDispatch(ctx context.Context, inv *billing.Invoice, now time.Time) bool {
	if s.dispatchGuard == nil {
		return true
	}
	key := fmt.Sprintf("reminder:%s:%s", inv.ID, now.Format("2006-01-02"))
	claimed, err := s.dispatchGuard.MarkProcessed(ctx, key, reminderDispatchTTL)
	if err != nil {
		// Guard unreachable. Dispatch anyway; the repository query
		// already excludes invoices reminded today.
		s.logger.Warn("Reminder dispatch guard unavailable",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
		return true
	}
	return claimed
}

func (s *ReminderService) dispatchReminder(ctx context.Context, inv *billing.Invoice, now time.Time) error {
	channel := s.channelFor(inv, now)
	recipients := s.recipientsFor(inv)
	message := s.composeMessage(inv, now)

	status := billing.ReminderDeliverySent
	deliveryErr := error(nil)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, channel, recipients, message); err != nil {
			status = billing.ReminderDeliveryFailed
			deliveryErr = err
		}
	}

	if err := inv.RecordReminderDispatch(channel, recipients, message, status, now); err != nil {
		return err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		events := inv.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			inv.ClearDomainEvents()
		}
	}
	if s.metrics != nil {
		s.metrics.RecordReminderDispatched(ctx, inv.TenantID, string(channel), string(status))
	}

	return deliveryErr
}

// channelFor resolves the channel of the schedule rule matching the
// invoice today. Email is the fallback when no rule matches, which
// can happen when the due date moved after the next reminder date was
// computed.
func (s *ReminderService) channelFor(inv *billing.Invoice, now time.Time) billing.ReminderChannel {
	for _, rule := range inv.Reminders.Schedule {
		if rule.MatchesAt(inv.DueDate, now) {
			return rule.Channel
		}
	}
	return billing.ReminderChannelEmail
}

func (s *ReminderService) recipientsFor(inv *billing.Invoice) []string {
	if inv.ClientEmail != "" {
		return []string{inv.ClientEmail}
	}
	return append([]string{}, inv.SentTo...)
}

func (s *ReminderService) composeMessage(inv *billing.Invoice, now time.Time) string {
	if daysPast := billing.DaysPastDue(inv.DueDate, now); daysPast > 0 {
		return fmt.Sprintf("Invoice %s for %s is %d day(s) overdue. Please arrange payment at your earliest convenience.",
			inv.InvoiceNumber, inv.FormattedTotal(), daysPast)
	}
	daysUntil := billing.DaysUntilDue(inv.DueDate, now)
	if daysUntil == 0 {
		return fmt.Sprintf("Invoice %s for %s is due today.", inv.InvoiceNumber, inv.FormattedTotal())
	}
	return fmt.Sprintf("Invoice %s for %s is due in %d day(s).", inv.InvoiceNumber, inv.FormattedTotal(), daysUntil)
}
