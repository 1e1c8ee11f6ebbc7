package models

import (
	"time"

	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SequenceCounterModel is the persistence model for per-period document
// numbering counters. One row per (tenant, bucket); the value column is
// incremented atomically in place.
type SequenceCounterModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sequence_tenant_bucket,priority:1"`
	Bucket    string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_sequence_tenant_bucket,priority:2"`
	Value     int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string               `gorm:"type:varchar(60);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	Title         string               `gorm:"type:varchar(200)"`
	Description   string               `gorm:"type:varchar(1000)"`
	ClientID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ClientName    string               `gorm:"type:varchar(200);not null"`
	ClientEmail   string               `gorm:"type:varchar(200)"`
	ClientAddress valueobject.Address  `gorm:"type:jsonb"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	IssueDate     time.Time            `gorm:"not null;index"`
	DueDate       time.Time            `gorm:"not null;index"`
	Items         billing.LineItems    `gorm:"type:jsonb;default:'[]'"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null;index"`

	Status billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes  string                `gorm:"type:text"`
	Terms  string                `gorm:"type:text"`

	SentDate         *time.Time
	SentTo           billing.Recipients `gorm:"type:jsonb;default:'[]'"`
	ViewedDate       *time.Time
	ViewCount        int `gorm:"not null;default:0"`
	DownloadCount    int `gorm:"not null;default:0"`
	PaymentDate      *time.Time
	PaymentMethod    string `gorm:"type:varchar(50)"`
	PaymentReference string `gorm:"type:varchar(100)"`
	CancelledAt      *time.Time
	CancelReason     string `gorm:"type:varchar(500)"`

	IsRecurring        bool                       `gorm:"not null;default:false"`
	RecurringFrequency billing.RecurringFrequency `gorm:"type:varchar(20)"`
	NextInvoiceDate    *time.Time
	ParentInvoiceID    *uuid.UUID `gorm:"type:uuid;index"`

	RemindersEnabled bool                     `gorm:"not null;default:false"`
	ReminderSchedule billing.ReminderSchedule `gorm:"type:jsonb;default:'[]'"`
	LastReminderDate *time.Time
	NextReminderDate *time.Time               `gorm:"index"`
	ReminderHistory  billing.ReminderRecords  `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber: m.InvoiceNumber,
		Title:         m.Title,
		Description:   m.Description,
		ClientID:      m.ClientID,
		ClientName:    m.ClientName,
		ClientEmail:   m.ClientEmail,
		ClientAddress: m.ClientAddress,
		Currency:      m.Currency,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Items:         m.Items,
		Totals: billing.FinancialTotals{
			Subtotal:       m.Subtotal,
			TaxRate:        m.TaxRate,
			TaxAmount:      m.TaxAmount,
			DiscountRate:   m.DiscountRate,
			DiscountAmount: m.DiscountAmount,
			Total:          m.Total,
		},
		Status:           m.Status,
		Notes:            m.Notes,
		Terms:            m.Terms,
		SentDate:         m.SentDate,
		SentTo:           m.SentTo,
		ViewedDate:       m.ViewedDate,
		ViewCount:        m.ViewCount,
		DownloadCount:    m.DownloadCount,
		PaymentDate:      m.PaymentDate,
		PaymentMethod:    m.PaymentMethod,
		PaymentReference: m.PaymentReference,
		CancelledAt:      m.CancelledAt,
		CancelReason:     m.CancelReason,
		IsRecurring:        m.IsRecurring,
		RecurringFrequency: m.RecurringFrequency,
		NextInvoiceDate:    m.NextInvoiceDate,
		ParentInvoiceID:    m.ParentInvoiceID,
		Reminders: billing.ReminderSettings{
			Enabled:          m.RemindersEnabled,
			Schedule:         m.ReminderSchedule,
			LastReminderDate: m.LastReminderDate,
			NextReminderDate: m.NextReminderDate,
		},
		ReminderHistory: m.ReminderHistory,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.Title = inv.Title
	m.Description = inv.Description
	m.ClientID = inv.ClientID
	m.ClientName = inv.ClientName
	m.ClientEmail = inv.ClientEmail
	m.ClientAddress = inv.ClientAddress
	m.Currency = inv.Currency
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Items = inv.Items
	m.Subtotal = inv.Totals.Subtotal
	m.TaxRate = inv.Totals.TaxRate
	m.TaxAmount = inv.Totals.TaxAmount
	m.DiscountRate = inv.Totals.DiscountRate
	m.DiscountAmount = inv.Totals.DiscountAmount
	m.Total = inv.Totals.Total
	m.Status = inv.Status
	m.Notes = inv.Notes
	m.Terms = inv.Terms
	m.SentDate = inv.SentDate
	m.SentTo = inv.SentTo
	m.ViewedDate = inv.ViewedDate
	m.ViewCount = inv.ViewCount
	m.DownloadCount = inv.DownloadCount
	m.PaymentDate = inv.PaymentDate
	m.PaymentMethod = inv.PaymentMethod
	m.PaymentReference = inv.PaymentReference
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
	m.IsRecurring = inv.IsRecurring
	m.RecurringFrequency = inv.RecurringFrequency
	m.NextInvoiceDate = inv.NextInvoiceDate
	m.ParentInvoiceID = inv.ParentInvoiceID
	m.RemindersEnabled = inv.Reminders.Enabled
	m.ReminderSchedule = inv.Reminders.Schedule
	m.LastReminderDate = inv.Reminders.LastReminderDate
	m.NextReminderDate = inv.Reminders.NextReminderDate
	m.ReminderHistory = inv.ReminderHistory
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ProposalModel is the persistence model for the Proposal aggregate root.
type ProposalModel struct {
	TenantAggregateModel
	ProposalNumber string               `gorm:"type:varchar(60);not null;uniqueIndex:idx_proposal_tenant_number,priority:2"`
	ClientID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	ClientName     string               `gorm:"type:varchar(200);not null"`
	ClientEmail    string               `gorm:"type:varchar(200)"`
	ClientAddress  valueobject.Address  `gorm:"type:jsonb"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	IssueDate      time.Time            `gorm:"not null;index"`
	ValidUntil     time.Time            `gorm:"not null;index"`
	Items          billing.LineItems    `gorm:"type:jsonb;default:'[]'"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	Status billing.ProposalStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes  string                 `gorm:"type:text"`
	Terms  string                 `gorm:"type:text"`

	FormatType string `gorm:"type:varchar(20)"`
	Tone       string `gorm:"type:varchar(20)"`

	SentDate      *time.Time
	SentTo        billing.Recipients `gorm:"type:jsonb;default:'[]'"`
	ViewedDate    *time.Time
	ViewCount     int `gorm:"not null;default:0"`
	DownloadCount int `gorm:"not null;default:0"`
	DecidedAt     *time.Time
	DecisionNote  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProposalModel) TableName() string {
	return "proposals"
}

// ToDomain converts the persistence model to a domain Proposal entity.
func (m *ProposalModel) ToDomain() *billing.Proposal {
	p := &billing.Proposal{
		ProposalNumber: m.ProposalNumber,
		ClientID:       m.ClientID,
		ClientName:     m.ClientName,
		ClientEmail:    m.ClientEmail,
		ClientAddress:  m.ClientAddress,
		Currency:       m.Currency,
		IssueDate:      m.IssueDate,
		ValidUntil:     m.ValidUntil,
		Items:          m.Items,
		Totals: billing.FinancialTotals{
			Subtotal:       m.Subtotal,
			TaxRate:        m.TaxRate,
			TaxAmount:      m.TaxAmount,
			DiscountRate:   m.DiscountRate,
			DiscountAmount: m.DiscountAmount,
			Total:          m.Total,
		},
		Status:        m.Status,
		Notes:         m.Notes,
		Terms:         m.Terms,
		FormatType:    m.FormatType,
		Tone:          m.Tone,
		SentDate:      m.SentDate,
		SentTo:        m.SentTo,
		ViewedDate:    m.ViewedDate,
		ViewCount:     m.ViewCount,
		DownloadCount: m.DownloadCount,
		DecidedAt:     m.DecidedAt,
		DecisionNote:  m.DecisionNote,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Proposal entity.
func (m *ProposalModel) FromDomain(p *billing.Proposal) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ProposalNumber = p.ProposalNumber
	m.ClientID = p.ClientID
	m.ClientName = p.ClientName
	m.ClientEmail = p.ClientEmail
	m.ClientAddress = p.ClientAddress
	m.Currency = p.Currency
	m.IssueDate = p.IssueDate
	m.ValidUntil = p.ValidUntil
	m.Items = p.Items
	m.Subtotal = p.Totals.Subtotal
	m.TaxRate = p.Totals.TaxRate
	m.TaxAmount = p.Totals.TaxAmount
	m.DiscountRate = p.Totals.DiscountRate
	m.DiscountAmount = p.Totals.DiscountAmount
	m.Total = p.Totals.Total
	m.Status = p.Status
	m.Notes = p.Notes
	m.Terms = p.Terms
	m.FormatType = p.FormatType
	m.Tone = p.Tone
	m.SentDate = p.SentDate
	m.SentTo = p.SentTo
	m.ViewedDate = p.ViewedDate
	m.ViewCount = p.ViewCount
	m.DownloadCount = p.DownloadCount
	m.DecidedAt = p.DecidedAt
	m.DecisionNote = p.DecisionNote
}

// ProposalModelFromDomain creates a new persistence model from a domain Proposal.
func ProposalModelFromDomain(p *billing.Proposal) *ProposalModel {
	m := &ProposalModel{}
	m.FromDomain(p)
	return m
}
