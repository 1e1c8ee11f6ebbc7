package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"     // Not yet sent to the client
	InvoiceStatusSent      InvoiceStatus = "sent"      // Delivered, awaiting payment
	InvoiceStatusPaid      InvoiceStatus = "paid"      // Fully paid
	InvoiceStatusOverdue   InvoiceStatus = "overdue"   // Past due date without payment
	InvoiceStatusCancelled InvoiceStatus = "cancelled" // Voided before payment
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition applies to the status
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanBePaid returns true if a payment can be recorded in this status
func (s InvoiceStatus) CanBePaid() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// RecurringFrequency represents how often a recurring invoice repeats
type RecurringFrequency string

const (
	RecurringWeekly    RecurringFrequency = "weekly"
	RecurringMonthly   RecurringFrequency = "monthly"
	RecurringQuarterly RecurringFrequency = "quarterly"
	RecurringYearly    RecurringFrequency = "yearly"
)

// IsValid checks if the frequency is a valid RecurringFrequency
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case RecurringWeekly, RecurringMonthly, RecurringQuarterly, RecurringYearly:
		return true
	}
	return false
}

// Recipients is a slice of recipient addresses that implements GORM Scanner/Valuer for JSONB storage
type Recipients []string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (r Recipients) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (r *Recipients) Scan(value interface{}) error {
	if value == nil {
		*r = Recipients{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Recipients: unsupported type")
	}

	if len(bytes) == 0 {
		*r = Recipients{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// Invoice represents an invoice aggregate root. It owns its line items,
// derived financial totals, engagement history, and reminder state.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string               `json:"invoice_number"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	ClientID      uuid.UUID            `json:"client_id"`
	ClientName    string               `json:"client_name"`
	ClientEmail   string               `json:"client_email"`
	ClientAddress valueobject.Address  `json:"client_address"`
	Currency      valueobject.Currency `json:"currency"`
	IssueDate     time.Time            `json:"issue_date"`
	DueDate       time.Time            `json:"due_date"`
	Items         LineItems            `json:"items"`
	Totals        FinancialTotals      `json:"totals"`
	Status        InvoiceStatus        `json:"status"`
	Notes         string               `json:"notes"`
	Terms         string               `json:"terms"`

	// Engagement and payment history
	SentDate         *time.Time `json:"sent_date,omitempty"`
	SentTo           Recipients `json:"sent_to"`
	ViewedDate       *time.Time `json:"viewed_date,omitempty"`
	ViewCount        int        `json:"view_count"`
	DownloadCount    int        `json:"download_count"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancelReason     string     `json:"cancel_reason,omitempty"`

	// Recurring billing linkage, carried as data. Nothing in this
	// aggregate generates follow-up invoices from it.
	IsRecurring        bool               `json:"is_recurring"`
	RecurringFrequency RecurringFrequency `json:"recurring_frequency,omitempty"`
	NextInvoiceDate    *time.Time         `json:"next_invoice_date,omitempty"`
	ParentInvoiceID    *uuid.UUID         `json:"parent_invoice_id,omitempty"`

	Reminders       ReminderSettings `json:"reminders"`
	ReminderHistory ReminderRecords  `json:"reminder_history"`
}

// DefaultPaymentTermDays is applied when no due date is supplied
const DefaultPaymentTermDays = 30

// NewInvoice creates a new draft invoice. A zero dueDate defaults to
// issueDate plus 30 days. Line item amounts and totals are recomputed
// from the inputs.
func NewInvoice(
	tenantID uuid.UUID,
	clientID uuid.UUID,
	clientName string,
	clientEmail string,
	clientAddress valueobject.Address,
	curr valueobject.Currency,
	issueDate time.Time,
	dueDate time.Time,
	items LineItems,
	taxRate decimal.Decimal,
	discountRate decimal.Decimal,
) (*Invoice, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice requires at least one line item")
	}
	if curr == "" {
		curr = valueobject.DefaultCurrency
	}
	if !curr.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unsupported currency %q", curr))
	}
	if issueDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Issue date cannot be empty")
	}
	if dueDate.IsZero() {
		dueDate = issueDate.Add(DefaultPaymentTermDays * dayDuration)
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due date cannot be before issue date")
	}

	recomputed, totals, derr := CalculateTotals(items, taxRate, discountRate)
	if derr != nil {
		return nil, derr
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		ClientName:          clientName,
		ClientEmail:         clientEmail,
		ClientAddress:       clientAddress,
		Currency:            curr,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Items:               recomputed,
		Totals:              totals,
		Status:              InvoiceStatusDraft,
		SentTo:              Recipients{},
		Reminders:           ReminderSettings{Schedule: ReminderSchedule{}},
		ReminderHistory:     ReminderRecords{},
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AssignNumber sets the invoice number once. Assigning to an already
// numbered invoice is a no-op: an existing number is never overwritten.
func (inv *Invoice) AssignNumber(number string) error {
	if inv.InvoiceNumber != "" {
		return nil
	}
	if number == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice number cannot be empty")
	}
	inv.InvoiceNumber = number
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// UpdateDetails recomputes line items and totals from new inputs.
// Not allowed once the invoice reached a terminal status.
func (inv *Invoice) UpdateDetails(items LineItems, taxRate, discountRate decimal.Decimal) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice requires at least one line item")
	}

	recomputed, totals, derr := CalculateTotals(items, taxRate, discountRate)
	if derr != nil {
		return derr
	}

	inv.Items = recomputed
	inv.Totals = totals
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// SetDueDate updates the due date and recomputes the next reminder.
// Not allowed once the invoice reached a terminal status.
func (inv *Invoice) SetDueDate(dueDate time.Time, now time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	if dueDate.Before(inv.IssueDate) {
		return shared.NewDomainError("VALIDATION_ERROR", "Due date cannot be before issue date")
	}

	inv.DueDate = dueDate
	inv.RecomputeNextReminder(now)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	return nil
}

// MarkSent records a delivery to the given recipients. A draft invoice
// moves to sent; an already sent or overdue invoice keeps its status
// and only stamps the new send. Terminal invoices cannot be sent.
// Recipients accumulate across sends, so SentTo holds the full
// delivery history rather than only the latest batch.
func (inv *Invoice) MarkSent(recipients []string, now time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}
	if len(recipients) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "At least one recipient is required")
	}

	if inv.Status == InvoiceStatusDraft {
		inv.Status = InvoiceStatusSent
	}
	inv.SentDate = &now
	inv.SentTo = append(inv.SentTo, recipients...)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceSentEvent(inv, recipients))

	return nil
}

// MarkPaid records payment. Only a sent or overdue invoice can be paid.
func (inv *Invoice) MarkPaid(method, reference string, now time.Time) error {
	if !inv.Status.CanBePaid() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot pay invoice in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusPaid
	inv.PaymentDate = &now
	inv.PaymentMethod = method
	inv.PaymentReference = reference
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// MarkViewed stamps the first view time and increments the view
// counter. Viewing is not a status transition and is allowed in any
// status.
func (inv *Invoice) MarkViewed(now time.Time) {
	if inv.ViewedDate == nil {
		inv.ViewedDate = &now
	}
	inv.ViewCount++
	inv.UpdatedAt = now
	inv.IncrementVersion()
}

// RecordDownload increments the download counter
func (inv *Invoice) RecordDownload(now time.Time) {
	inv.DownloadCount++
	inv.UpdatedAt = now
	inv.IncrementVersion()
}

// Cancel voids the invoice. Terminal invoices cannot be cancelled.
func (inv *Invoice) Cancel(reason string, now time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}

	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// RefreshOverdue lazily moves a sent invoice past its due date to
// overdue. Terminal invoices never change. Returns true when the
// status changed and the invoice needs persisting.
func (inv *Invoice) RefreshOverdue(now time.Time) bool {
	if inv.Status != InvoiceStatusSent {
		return false
	}
	if !now.After(inv.DueDate) {
		return false
	}

	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceOverdueEvent(inv))

	return true
}

// IsOverdue reports whether the invoice is past due and still unpaid
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusOverdue {
		return false
	}
	return now.After(inv.DueDate)
}

// DaysUntilDue returns whole days remaining before the due date,
// rounded up. Negative when past due.
func (inv *Invoice) DaysUntilDue(now time.Time) int {
	return DaysUntilDue(inv.DueDate, now)
}

// FormattedTotal renders the total with the invoice currency symbol,
// rounded to 2 decimal places for display only.
func (inv *Invoice) FormattedTotal() string {
	unit, err := currency.ParseISO(string(inv.Currency))
	if err != nil {
		return fmt.Sprintf("%s %s", inv.Currency, inv.Totals.Total.StringFixed(2))
	}
	return fmt.Sprintf("%v%s", currency.NarrowSymbol(unit), inv.Totals.Total.StringFixed(2))
}

// SetReminderSchedule replaces the reminder schedule, enables
// reminders, and recomputes the next reminder date immediately.
func (inv *Invoice) SetReminderSchedule(schedule ReminderSchedule, now time.Time) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	inv.Reminders.Schedule = schedule
	inv.Reminders.Enabled = true
	inv.RecomputeNextReminder(now)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	return nil
}

// DisableReminders turns reminders off and clears the derived next date
func (inv *Invoice) DisableReminders(now time.Time) {
	inv.Reminders.Enabled = false
	inv.Reminders.NextReminderDate = nil
	inv.UpdatedAt = now
	inv.IncrementVersion()
}

// RecomputeNextReminder re-derives the next reminder date from the
// schedule and current due date
func (inv *Invoice) RecomputeNextReminder(now time.Time) {
	if !inv.Reminders.Enabled {
		inv.Reminders.NextReminderDate = nil
		return
	}
	inv.Reminders.NextReminderDate = ComputeNextReminder(inv.Reminders.Schedule, inv.DueDate, now)
}

// RecordReminderDispatch appends a reminder record, stamps the last
// reminder time, and recomputes the next reminder date. Delivery
// itself happens outside the aggregate; the outcome is recorded here.
func (inv *Invoice) RecordReminderDispatch(channel ReminderChannel, recipients []string, message string, status ReminderDeliveryStatus, now time.Time) error {
	if !channel.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Reminder channel must be email or sms")
	}

	inv.ReminderHistory = append(inv.ReminderHistory, ReminderRecord{
		ID:             uuid.New(),
		SentDate:       now,
		Channel:        channel,
		Recipients:     recipients,
		Message:        message,
		DeliveryStatus: status,
	})
	inv.Reminders.LastReminderDate = &now
	inv.RecomputeNextReminder(now)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceReminderDispatchedEvent(inv, channel, recipients, status))

	return nil
}

// Duplicate produces a fresh draft copy of the invoice. Identity,
// numbering, engagement history, payment fields, reminder state, and
// recurring linkage (next date, parent) are stripped; the issue date
// becomes now and the due date now plus 30 days. The source invoice
// is not mutated.
func (inv *Invoice) Duplicate(now time.Time) *Invoice {
	items := make(LineItems, len(inv.Items))
	copy(items, inv.Items)

	clone := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(inv.TenantID),
		Title:               inv.Title,
		Description:         inv.Description,
		ClientID:            inv.ClientID,
		ClientName:          inv.ClientName,
		ClientEmail:         inv.ClientEmail,
		ClientAddress:       inv.ClientAddress,
		Currency:            inv.Currency,
		IssueDate:           now,
		DueDate:             now.Add(DefaultPaymentTermDays * dayDuration),
		Items:               items,
		Totals:              inv.Totals,
		Status:              InvoiceStatusDraft,
		Notes:               inv.Notes,
		Terms:               inv.Terms,
		IsRecurring:         inv.IsRecurring,
		RecurringFrequency:  inv.RecurringFrequency,
		SentTo:              Recipients{},
		Reminders: ReminderSettings{
			Enabled:  inv.Reminders.Enabled,
			Schedule: append(ReminderSchedule{}, inv.Reminders.Schedule...),
		},
		ReminderHistory: ReminderRecords{},
	}
	clone.RecomputeNextReminder(now)

	clone.AddDomainEvent(NewInvoiceCreatedEvent(clone))

	return clone
}
