package billing

import (
	"context"
	"time"

	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/invoicehub/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService provides application-level invoice operations. It
// wires numbering, recomputation, and lazy overdue evaluation into the
// persistence path: number once before first save, recompute totals on
// every content change, refresh overdue status on reads and writes.
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	numberGen      *NumberGenerator
	eventPublisher shared.EventPublisher
	metrics        *telemetry.BillingMetrics
	logger         *zap.Logger
}

// InvoiceServiceOption is a functional option for configuring InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithInvoiceEventPublisher attaches a domain event publisher
func WithInvoiceEventPublisher(publisher shared.EventPublisher) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.eventPublisher = publisher
	}
}

// WithInvoiceMetrics attaches billing metrics
func WithInvoiceMetrics(metrics *telemetry.BillingMetrics) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.metrics = metrics
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	numberGen *NumberGenerator,
	logger *zap.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InvoiceService{
		invoiceRepo: invoiceRepo,
		numberGen:   numberGen,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===================== Requests and Responses =====================

// LineItemRequest represents a line item in API requests
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
}

// AddressRequest represents a client address in API requests
type AddressRequest struct {
	Street  string `json:"street" binding:"max=200"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	ZipCode string `json:"zip_code" binding:"max=20"`
	Country string `json:"country" binding:"max=100"`
}

// CreateInvoiceRequest is the payload for creating an invoice
type CreateInvoiceRequest struct {
	Title              string            `json:"title" binding:"max=200"`
	Description        string            `json:"description" binding:"max=1000"`
	ClientID           uuid.UUID         `json:"client_id" binding:"required"`
	ClientName         string            `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail        string            `json:"client_email" binding:"omitempty,email"`
	ClientAddress      *AddressRequest   `json:"client_address"`
	Currency           string            `json:"currency" binding:"omitempty,currency"`
	IssueDate          *time.Time        `json:"issue_date"`
	DueDate            *time.Time        `json:"due_date"`
	Items              []LineItemRequest `json:"items" binding:"required,min=1"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	DiscountRate       decimal.Decimal   `json:"discount_rate"`
	Notes              string            `json:"notes" binding:"max=1000"`
	Terms              string            `json:"terms" binding:"max=1000"`
	IsRecurring        bool              `json:"is_recurring"`
	RecurringFrequency string            `json:"recurring_frequency" binding:"omitempty,oneof=weekly monthly quarterly yearly"`
	NextInvoiceDate    *time.Time        `json:"next_invoice_date"`
	ParentInvoiceID    *uuid.UUID        `json:"parent_invoice_id"`
}

// UpdateInvoiceRequest is the payload for updating invoice content
type UpdateInvoiceRequest struct {
	Title        *string           `json:"title" binding:"omitempty,max=200"`
	Description  *string           `json:"description" binding:"omitempty,max=1000"`
	Items        []LineItemRequest `json:"items" binding:"omitempty,min=1"`
	TaxRate      decimal.Decimal   `json:"tax_rate"`
	DiscountRate decimal.Decimal   `json:"discount_rate"`
	DueDate      *time.Time        `json:"due_date"`
	Notes        *string           `json:"notes" binding:"omitempty,max=1000"`
	Terms        *string           `json:"terms" binding:"omitempty,max=1000"`
}

// SendInvoiceRequest is the payload for sending an invoice
type SendInvoiceRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,email"`
}

// PayInvoiceRequest is the payload for recording payment
type PayInvoiceRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required,max=50"`
	PaymentReference string `json:"payment_reference" binding:"max=100"`
}

// CancelInvoiceRequest is the payload for cancelling an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ReminderRuleRequest represents one reminder schedule entry in API requests
type ReminderRuleRequest struct {
	DaysBeforeDue *int   `json:"days_before_due,omitempty" binding:"omitempty,gte=0"`
	DaysAfterDue  *int   `json:"days_after_due,omitempty" binding:"omitempty,gte=0"`
	Channel       string `json:"channel" binding:"required,oneof=email sms"`
}

// SetReminderScheduleRequest is the payload for configuring reminders
type SetReminderScheduleRequest struct {
	Schedule []ReminderRuleRequest `json:"schedule" binding:"required,min=1"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// FinancialTotalsResponse represents document totals in API responses
type FinancialTotalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ReminderSettingsResponse represents reminder state in API responses
type ReminderSettingsResponse struct {
	Enabled          bool                  `json:"enabled"`
	Schedule         []ReminderRuleRequest `json:"schedule"`
	LastReminderDate *time.Time            `json:"last_reminder_date,omitempty"`
	NextReminderDate *time.Time            `json:"next_reminder_date,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID                `json:"id"`
	TenantID      uuid.UUID                `json:"tenant_id"`
	InvoiceNumber string                   `json:"invoice_number"`
	Title         string                   `json:"title,omitempty"`
	Description   string                   `json:"description,omitempty"`
	ClientID      uuid.UUID                `json:"client_id"`
	ClientName    string                   `json:"client_name"`
	ClientEmail   string                   `json:"client_email,omitempty"`
	ClientAddress *AddressRequest          `json:"client_address,omitempty"`
	Currency      string                   `json:"currency"`
	IssueDate     time.Time                `json:"issue_date"`
	DueDate       time.Time                `json:"due_date"`
	Items         []LineItemResponse       `json:"items"`
	Totals        FinancialTotalsResponse  `json:"totals"`
	Status        string                   `json:"status"`
	Notes         string                   `json:"notes,omitempty"`
	Terms         string                   `json:"terms,omitempty"`
	SentDate      *time.Time               `json:"sent_date,omitempty"`
	SentTo        []string                 `json:"sent_to,omitempty"`
	ViewedDate    *time.Time               `json:"viewed_date,omitempty"`
	ViewCount     int                      `json:"view_count"`
	DownloadCount int                      `json:"download_count"`
	PaymentDate   *time.Time               `json:"payment_date,omitempty"`
	PaymentMethod string                   `json:"payment_method,omitempty"`
	Reminders     ReminderSettingsResponse `json:"reminders"`

	IsRecurring        bool       `json:"is_recurring"`
	RecurringFrequency string     `json:"recurring_frequency,omitempty"`
	NextInvoiceDate    *time.Time `json:"next_invoice_date,omitempty"`
	ParentInvoiceID    *uuid.UUID `json:"parent_invoice_id,omitempty"`

	// Derived, computed against the time of the request
	DaysUntilDue   int    `json:"days_until_due"`
	IsOverdue      bool   `json:"is_overdue"`
	FormattedTotal string `json:"formatted_total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Overdue  *bool      `form:"overdue"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ===================== Operations =====================

// CreateInvoice creates and numbers a new invoice. Numbering happens
// exactly once here, before the first save; a counter outage degrades
// to an emergency number instead of failing the create.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	now := time.Now()

	items, err := toLineItems(req.Items)
	if err != nil {
		return nil, err
	}

	address, err := toAddress(req.ClientAddress)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	issueDate := now
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	var dueDate time.Time
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	inv, err := billing.NewInvoice(
		tenantID,
		req.ClientID,
		req.ClientName,
		req.ClientEmail,
		address,
		valueobject.Currency(req.Currency),
		issueDate,
		dueDate,
		items,
		req.TaxRate,
		req.DiscountRate,
	)
	if err != nil {
		return nil, err
	}
	inv.Title = req.Title
	inv.Description = req.Description
	inv.Notes = req.Notes
	inv.Terms = req.Terms

	if req.RecurringFrequency != "" {
		freq := billing.RecurringFrequency(req.RecurringFrequency)
		if !freq.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid recurring frequency")
		}
		inv.RecurringFrequency = freq
	}
	inv.IsRecurring = req.IsRecurring
	inv.NextInvoiceDate = req.NextInvoiceDate
	inv.ParentInvoiceID = req.ParentInvoiceID

	number := s.numberGen.Generate(ctx, tenantID, billing.DocumentTypeInvoice, issueDate)
	if err := inv.AssignNumber(number); err != nil {
		return nil, err
	}

	inv.RefreshOverdue(now)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)

	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, tenantID)
	}
	s.logger.Info("Invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
	)

	return toInvoiceResponse(inv, now), nil
}

// GetInvoice returns an invoice, lazily refreshing its overdue status
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if inv.RefreshOverdue(now) {
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, inv)
	}

	return toInvoiceResponse(inv, now), nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	now := time.Now()

	domainFilter := billing.InvoiceFilter{
		ClientID: filter.ClientID,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Overdue:  filter.Overdue,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid invoice status filter")
		}
		domainFilter.Status = &status
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *toInvoiceResponse(&invoices[i], now)
	}
	return responses, total, nil
}

// UpdateInvoice recomputes the invoice content from new inputs
func (s *InvoiceService) UpdateInvoice(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items, err := toLineItems(req.Items)
		if err != nil {
			return nil, err
		}
		if err := inv.UpdateDetails(items, req.TaxRate, req.DiscountRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := inv.SetDueDate(*req.DueDate, now); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		inv.Title = *req.Title
	}
	if req.Description != nil {
		inv.Description = *req.Description
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.Terms != nil {
		inv.Terms = *req.Terms
	}

	inv.RefreshOverdue(now)

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)

	return toInvoiceResponse(inv, now), nil
}

// SendInvoice records a delivery and moves a draft to sent
func (s *InvoiceService) SendInvoice(ctx context.Context, tenantID, id uuid.UUID, req SendInvoiceRequest) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := inv.MarkSent(req.Recipients, now); err != nil {
		return nil, err
	}
	inv.RefreshOverdue(now)

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)

	return toInvoiceResponse(inv, now), nil
}

// PayInvoice records payment on a sent or overdue invoice
func (s *InvoiceService) PayInvoice(ctx context.Context, tenantID, id uuid.UUID, req PayInvoiceRequest) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	inv.RefreshOverdue(now)
	if err := inv.MarkPaid(req.PaymentMethod, req.PaymentReference, now); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)

	if s.metrics != nil {
		s.metrics.RecordInvoicePaid(ctx, tenantID, req.PaymentMethod)
	}

	return toInvoiceResponse(inv, now), nil
}

// ViewInvoice records a client view
func (s *InvoiceService) ViewInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	inv.MarkViewed(now)
	inv.RefreshOverdue(now)

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)

	return toInvoiceResponse(inv, now), nil
}

// DownloadInvoice records a document download
func (s *InvoiceService) DownloadInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	inv.RecordDownload(now)

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, now), nil
}

// CancelInvoice voids a non-terminal invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, id uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := inv.Cancel(req.Reason, now); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, inv)

	return toInvoiceResponse(inv, now), nil
}

// DuplicateInvoice clones an invoice into a freshly numbered draft.
// The source invoice is left untouched.
func (s *InvoiceService) DuplicateInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := time.Now()

	source, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	clone := source.Duplicate(now)
	number := s.numberGen.Generate(ctx, tenantID, billing.DocumentTypeInvoice, clone.IssueDate)
	if err := clone.AssignNumber(number); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, clone); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, clone)

	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, tenantID)
	}

	return toInvoiceResponse(clone, now), nil
}

// SetReminderSchedule configures the reminder schedule for an invoice
func (s *InvoiceService) SetReminderSchedule(ctx context.Context, tenantID, id uuid.UUID, req SetReminderScheduleRequest) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	schedule := make(billing.ReminderSchedule, len(req.Schedule))
	for i, rule := range req.Schedule {
		schedule[i] = billing.ReminderRule{
			DaysBeforeDue: rule.DaysBeforeDue,
			DaysAfterDue:  rule.DaysAfterDue,
			Channel:       billing.ReminderChannel(rule.Channel),
		}
	}

	if err := inv.SetReminderSchedule(schedule, now); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, now), nil
}

// DisableReminders turns reminders off for an invoice
func (s *InvoiceService) DisableReminders(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := time.Now()

	inv, err := s.findInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	inv.DisableReminders(now)

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, now), nil
}

// ProcessOverdueInvoices flips past-due sent invoices for a tenant to
// overdue. Overdue status is also refreshed lazily on reads, so this
// sweep only keeps stored state and metrics current for invoices
// nobody is looking at.
func (s *InvoiceService) ProcessOverdueInvoices(ctx context.Context, tenantID uuid.UUID, now time.Time) (int, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, tenantID, now)
	if err != nil {
		return 0, err
	}

	transitioned := 0
	for i := range invoices {
		inv := &invoices[i]
		if !inv.RefreshOverdue(now) {
			continue
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			s.logger.Error("Overdue sweep save failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.publishDomainEvents(ctx, inv)
		transitioned++
	}

	if transitioned > 0 {
		s.logger.Info("Overdue sweep completed",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("transitioned", transitioned),
		)
	}
	return transitioned, nil
}

// DeleteInvoice soft deletes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findInvoice(ctx, tenantID, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, tenantID, id)
}

// ===================== Helpers =====================

func (s *InvoiceService) findInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return inv, nil
}

func (s *InvoiceService) publishDomainEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	inv.ClearDomainEvents()
}

func toLineItems(reqs []LineItemRequest) (billing.LineItems, error) {
	items := make(billing.LineItems, len(reqs))
	for i, req := range reqs {
		item, err := billing.NewLineItem(req.Description, req.Quantity, req.Rate)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func toAddress(req *AddressRequest) (valueobject.Address, error) {
	if req == nil {
		return valueobject.EmptyAddress(), nil
	}
	return valueobject.NewAddress(req.Street, req.City, req.State, req.ZipCode, req.Country)
}

func toAddressRequest(addr valueobject.Address) *AddressRequest {
	if addr.IsEmpty() {
		return nil
	}
	return &AddressRequest{
		Street:  addr.Street(),
		City:    addr.City(),
		State:   addr.State(),
		ZipCode: addr.ZipCode(),
		Country: addr.Country(),
	}
}

func toLineItemResponses(items billing.LineItems) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		}
	}
	return responses
}

func toReminderSettingsResponse(settings billing.ReminderSettings) ReminderSettingsResponse {
	schedule := make([]ReminderRuleRequest, len(settings.Schedule))
	for i, rule := range settings.Schedule {
		schedule[i] = ReminderRuleRequest{
			DaysBeforeDue: rule.DaysBeforeDue,
			DaysAfterDue:  rule.DaysAfterDue,
			Channel:       string(rule.Channel),
		}
	}
	return ReminderSettingsResponse{
		Enabled:          settings.Enabled,
		Schedule:         schedule,
		LastReminderDate: settings.LastReminderDate,
		NextReminderDate: settings.NextReminderDate,
	}
}

func toInvoiceResponse(inv *billing.Invoice, now time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		Title:         inv.Title,
		Description:   inv.Description,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientAddress: toAddressRequest(inv.ClientAddress),
		Currency:      string(inv.Currency),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Items:         toLineItemResponses(inv.Items),
		Totals: FinancialTotalsResponse{
			Subtotal:       inv.Totals.Subtotal,
			TaxRate:        inv.Totals.TaxRate,
			TaxAmount:      inv.Totals.TaxAmount,
			DiscountRate:   inv.Totals.DiscountRate,
			DiscountAmount: inv.Totals.DiscountAmount,
			Total:          inv.Totals.Total,
		},
		Status:         string(inv.Status),
		Notes:          inv.Notes,
		Terms:          inv.Terms,
		SentDate:       inv.SentDate,
		SentTo:         inv.SentTo,
		ViewedDate:     inv.ViewedDate,
		ViewCount:      inv.ViewCount,
		DownloadCount:  inv.DownloadCount,
		PaymentDate:    inv.PaymentDate,
		PaymentMethod:  inv.PaymentMethod,
		Reminders:      toReminderSettingsResponse(inv.Reminders),

		IsRecurring:        inv.IsRecurring,
		RecurringFrequency: string(inv.RecurringFrequency),
		NextInvoiceDate:    inv.NextInvoiceDate,
		ParentInvoiceID:    inv.ParentInvoiceID,

		DaysUntilDue:   inv.DaysUntilDue(now),
		IsOverdue:      inv.IsOverdue(now),
		FormattedTotal: inv.FormattedTotal(),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
}
