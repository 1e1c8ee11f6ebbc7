package billing

import (
	"fmt"
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProposalStatus represents the lifecycle status of a proposal
type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"     // Being edited
	ProposalStatusGenerated ProposalStatus = "generated" // Document rendered, not yet delivered
	ProposalStatusSent      ProposalStatus = "sent"      // Delivered to the client
	ProposalStatusViewed    ProposalStatus = "viewed"    // Opened by the client
	ProposalStatusAccepted  ProposalStatus = "accepted"  // Client accepted
	ProposalStatusRejected  ProposalStatus = "rejected"  // Client rejected
)

// IsValid checks if the status is a valid ProposalStatus
func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusGenerated, ProposalStatusSent,
		ProposalStatusViewed, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ProposalStatus
func (s ProposalStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the proposal reached a final decision
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}

// CanBeDecided returns true if the client can still accept or reject
func (s ProposalStatus) CanBeDecided() bool {
	return s == ProposalStatusSent || s == ProposalStatusViewed
}

// Proposal represents a proposal aggregate root. Like an invoice it
// owns its line items and derived totals, but its lifecycle ends in a
// client decision instead of payment.
type Proposal struct {
	shared.TenantAggregateRoot
	ProposalNumber string               `json:"proposal_number"`
	ClientID       uuid.UUID            `json:"client_id"`
	ClientName     string               `json:"client_name"`
	ClientEmail    string               `json:"client_email"`
	ClientAddress  valueobject.Address  `json:"client_address"`
	Currency       valueobject.Currency `json:"currency"`
	IssueDate      time.Time            `json:"issue_date"`
	ValidUntil     time.Time            `json:"valid_until"`
	Items          LineItems            `json:"items"`
	Totals         FinancialTotals      `json:"totals"`
	Status         ProposalStatus       `json:"status"`
	Notes          string               `json:"notes"`
	Terms          string               `json:"terms"`

	// Generation parameters, carried as data for the rendering side.
	FormatType string `json:"format_type,omitempty"`
	Tone       string `json:"tone,omitempty"`

	SentDate      *time.Time `json:"sent_date,omitempty"`
	SentTo        Recipients `json:"sent_to"`
	ViewedDate    *time.Time `json:"viewed_date,omitempty"`
	ViewCount     int        `json:"view_count"`
	DownloadCount int        `json:"download_count"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	DecisionNote  string     `json:"decision_note,omitempty"`
}

// DefaultValidityDays is applied when no validity date is supplied
const DefaultValidityDays = 30

// Defaults applied when no generation parameters are supplied
const (
	DefaultProposalFormat = "professional"
	DefaultProposalTone   = "professional"
)

// NewProposal creates a new draft proposal. A zero validUntil defaults
// to issueDate plus 30 days.
func NewProposal(
	tenantID uuid.UUID,
	clientID uuid.UUID,
	clientName string,
	clientEmail string,
	clientAddress valueobject.Address,
	curr valueobject.Currency,
	issueDate time.Time,
	validUntil time.Time,
	items LineItems,
	taxRate decimal.Decimal,
	discountRate decimal.Decimal,
) (*Proposal, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Proposal requires at least one line item")
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
	if validUntil.IsZero() {
		validUntil = issueDate.Add(DefaultValidityDays * dayDuration)
	}
	if validUntil.Before(issueDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Validity date cannot be before issue date")
	}

	recomputed, totals, derr := CalculateTotals(items, taxRate, discountRate)
	if derr != nil {
		return nil, derr
	}

	p := &Proposal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		ClientName:          clientName,
		ClientEmail:         clientEmail,
		ClientAddress:       clientAddress,
		Currency:            curr,
		IssueDate:           issueDate,
		ValidUntil:          validUntil,
		Items:               recomputed,
		Totals:              totals,
		Status:              ProposalStatusDraft,
		FormatType:          DefaultProposalFormat,
		Tone:                DefaultProposalTone,
		SentTo:              Recipients{},
	}

	p.AddDomainEvent(NewProposalCreatedEvent(p))

	return p, nil
}

// AssignNumber sets the proposal number once. An existing number is
// never overwritten.
func (p *Proposal) AssignNumber(number string) error {
	if p.ProposalNumber != "" {
		return nil
	}
	if number == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Proposal number cannot be empty")
	}
	p.ProposalNumber = number
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// UpdateDetails recomputes line items and totals from new inputs.
// Only a draft or generated proposal can be edited.
func (p *Proposal) UpdateDetails(items LineItems, taxRate, discountRate decimal.Decimal) error {
	if p.Status != ProposalStatusDraft && p.Status != ProposalStatusGenerated {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot modify proposal in %s status", p.Status))
	}
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Proposal requires at least one line item")
	}

	recomputed, totals, derr := CalculateTotals(items, taxRate, discountRate)
	if derr != nil {
		return derr
	}

	p.Items = recomputed
	p.Totals = totals
	if p.Status == ProposalStatusGenerated {
		p.Status = ProposalStatusDraft
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// MarkGenerated records that the proposal document was rendered
func (p *Proposal) MarkGenerated(now time.Time) error {
	if p.Status != ProposalStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot generate proposal in %s status", p.Status))
	}

	p.Status = ProposalStatusGenerated
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// MarkSent records a delivery to the given recipients. Draft and
// generated proposals move to sent; a sent or viewed proposal keeps
// its status and only stamps the new send. Recipients accumulate
// across sends, so SentTo holds the full delivery history rather than
// only the latest batch.
func (p *Proposal) MarkSent(recipients []string, now time.Time) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot send proposal in %s status", p.Status))
	}
	if len(recipients) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "At least one recipient is required")
	}

	if p.Status == ProposalStatusDraft || p.Status == ProposalStatusGenerated {
		p.Status = ProposalStatusSent
	}
	p.SentDate = &now
	p.SentTo = append(p.SentTo, recipients...)
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewProposalSentEvent(p, recipients))

	return nil
}

// MarkViewed stamps the first view, increments the view counter, and
// moves a sent proposal to viewed
func (p *Proposal) MarkViewed(now time.Time) {
	if p.ViewedDate == nil {
		p.ViewedDate = &now
	}
	p.ViewCount++
	if p.Status == ProposalStatusSent {
		p.Status = ProposalStatusViewed
	}
	p.UpdatedAt = now
	p.IncrementVersion()
}

// RecordDownload increments the download counter
func (p *Proposal) RecordDownload(now time.Time) {
	p.DownloadCount++
	p.UpdatedAt = now
	p.IncrementVersion()
}

// Accept records the client's acceptance. Only a sent or viewed
// proposal can be decided.
func (p *Proposal) Accept(note string, now time.Time) error {
	if !p.Status.CanBeDecided() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot accept proposal in %s status", p.Status))
	}

	p.Status = ProposalStatusAccepted
	p.DecidedAt = &now
	p.DecisionNote = note
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewProposalAcceptedEvent(p))

	return nil
}

// Reject records the client's rejection. Only a sent or viewed
// proposal can be decided.
func (p *Proposal) Reject(note string, now time.Time) error {
	if !p.Status.CanBeDecided() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reject proposal in %s status", p.Status))
	}

	p.Status = ProposalStatusRejected
	p.DecidedAt = &now
	p.DecisionNote = note
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewProposalRejectedEvent(p))

	return nil
}

// IsExpired reports whether the proposal passed its validity date
// without a decision
func (p *Proposal) IsExpired(now time.Time) bool {
	if p.Status.IsTerminal() {
		return false
	}
	return now.After(p.ValidUntil)
}

// Duplicate produces a fresh draft copy of the proposal. Identity,
// numbering, and engagement history are stripped; the issue date
// becomes now and the validity date now plus 30 days. The source
// proposal is not mutated.
func (p *Proposal) Duplicate(now time.Time) *Proposal {
	items := make(LineItems, len(p.Items))
	copy(items, p.Items)

	clone := &Proposal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		ClientID:            p.ClientID,
		ClientName:          p.ClientName,
		ClientEmail:         p.ClientEmail,
		ClientAddress:       p.ClientAddress,
		Currency:            p.Currency,
		IssueDate:           now,
		ValidUntil:          now.Add(DefaultValidityDays * dayDuration),
		Items:               items,
		Totals:              p.Totals,
		Status:              ProposalStatusDraft,
		Notes:               p.Notes,
		Terms:               p.Terms,
		FormatType:          p.FormatType,
		Tone:                p.Tone,
		SentTo:              Recipients{},
	}

	clone.AddDomainEvent(NewProposalCreatedEvent(clone))

	return clone
}

// ConvertToInvoice builds a draft invoice from an accepted proposal.
// The proposal itself is not mutated; the caller numbers and persists
// the new invoice.
func (p *Proposal) ConvertToInvoice(now time.Time) (*Invoice, error) {
	if p.Status != ProposalStatusAccepted {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot convert proposal in %s status", p.Status))
	}

	items := make(LineItems, len(p.Items))
	copy(items, p.Items)

	return NewInvoice(
		p.TenantID,
		p.ClientID,
		p.ClientName,
		p.ClientEmail,
		p.ClientAddress,
		p.Currency,
		now,
		time.Time{},
		items,
		p.Totals.TaxRate,
		p.Totals.DiscountRate,
	)
}
