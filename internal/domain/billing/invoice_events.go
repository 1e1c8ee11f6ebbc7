package billing

import (
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    time.Time       `json:"due_date"`
	Total      decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		ClientName:      inv.ClientName,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Total:           inv.Totals.Total,
	}
}

// InvoiceSentEvent is raised when an invoice is delivered to recipients
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Recipients    []string  `json:"recipients"`
	SentDate      time.Time `json:"sent_date"`
}

// EventType returns the event type name
func (e *InvoiceSentEvent) EventType() string {
	return "InvoiceSent"
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice, recipients []string) *InvoiceSentEvent {
	sentDate := time.Now()
	if inv.SentDate != nil {
		sentDate = *inv.SentDate
	}
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceSent", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Recipients:      recipients,
		SentDate:        sentDate,
	}
}

// InvoicePaidEvent is raised when an invoice is fully paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	ClientID         uuid.UUID       `json:"client_id"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
	PaymentDate      time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	paymentDate := time.Now()
	if inv.PaymentDate != nil {
		paymentDate = *inv.PaymentDate
	}
	return &InvoicePaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:        inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		ClientID:         inv.ClientID,
		Total:            inv.Totals.Total,
		PaymentMethod:    inv.PaymentMethod,
		PaymentReference: inv.PaymentReference,
		PaymentDate:      paymentDate,
	}
}

// InvoiceOverdueEvent is raised when a sent invoice passes its due date
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      uuid.UUID       `json:"client_id"`
	DueDate       time.Time       `json:"due_date"`
	Total         decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *InvoiceOverdueEvent) EventType() string {
	return "InvoiceOverdue"
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceOverdue", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
		DueDate:         inv.DueDate,
		Total:           inv.Totals.Total,
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CancelReason  string    `json:"cancel_reason"`
}

// EventType returns the event type name
func (e *InvoiceCancelledEvent) EventType() string {
	return "InvoiceCancelled"
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCancelled", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CancelReason:    inv.CancelReason,
	}
}

// InvoiceReminderDispatchedEvent is raised when a payment reminder is recorded
type InvoiceReminderDispatchedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID              `json:"invoice_id"`
	InvoiceNumber  string                 `json:"invoice_number"`
	Channel        ReminderChannel        `json:"channel"`
	Recipients     []string               `json:"recipients"`
	DeliveryStatus ReminderDeliveryStatus `json:"delivery_status"`
}

// EventType returns the event type name
func (e *InvoiceReminderDispatchedEvent) EventType() string {
	return "InvoiceReminderDispatched"
}

// NewInvoiceReminderDispatchedEvent creates a new InvoiceReminderDispatchedEvent
func NewInvoiceReminderDispatchedEvent(inv *Invoice, channel ReminderChannel, recipients []string, status ReminderDeliveryStatus) *InvoiceReminderDispatchedEvent {
	return &InvoiceReminderDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceReminderDispatched", "Invoice", inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Channel:         channel,
		Recipients:      recipients,
		DeliveryStatus:  status,
	}
}
