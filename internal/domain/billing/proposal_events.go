package billing

import (
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProposalCreatedEvent is raised when a new proposal is created
type ProposalCreatedEvent struct {
	shared.BaseDomainEvent
	ProposalID uuid.UUID       `json:"proposal_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	IssueDate  time.Time       `json:"issue_date"`
	ValidUntil time.Time       `json:"valid_until"`
	Total      decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *ProposalCreatedEvent) EventType() string {
	return "ProposalCreated"
}

// NewProposalCreatedEvent creates a new ProposalCreatedEvent
func NewProposalCreatedEvent(p *Proposal) *ProposalCreatedEvent {
	return &ProposalCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProposalCreated", "Proposal", p.ID, p.TenantID),
		ProposalID:      p.ID,
		ClientID:        p.ClientID,
		ClientName:      p.ClientName,
		IssueDate:       p.IssueDate,
		ValidUntil:      p.ValidUntil,
		Total:           p.Totals.Total,
	}
}

// ProposalSentEvent is raised when a proposal is delivered to recipients
type ProposalSentEvent struct {
	shared.BaseDomainEvent
	ProposalID     uuid.UUID `json:"proposal_id"`
	ProposalNumber string    `json:"proposal_number"`
	Recipients     []string  `json:"recipients"`
	SentDate       time.Time `json:"sent_date"`
}

// EventType returns the event type name
func (e *ProposalSentEvent) EventType() string {
	return "ProposalSent"
}

// NewProposalSentEvent creates a new ProposalSentEvent
func NewProposalSentEvent(p *Proposal, recipients []string) *ProposalSentEvent {
	sentDate := time.Now()
	if p.SentDate != nil {
		sentDate = *p.SentDate
	}
	return &ProposalSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProposalSent", "Proposal", p.ID, p.TenantID),
		ProposalID:      p.ID,
		ProposalNumber:  p.ProposalNumber,
		Recipients:      recipients,
		SentDate:        sentDate,
	}
}

// ProposalAcceptedEvent is raised when a client accepts a proposal
type ProposalAcceptedEvent struct {
	shared.BaseDomainEvent
	ProposalID     uuid.UUID       `json:"proposal_id"`
	ProposalNumber string          `json:"proposal_number"`
	ClientID       uuid.UUID       `json:"client_id"`
	Total          decimal.Decimal `json:"total"`
	DecidedAt      time.Time       `json:"decided_at"`
}

// EventType returns the event type name
func (e *ProposalAcceptedEvent) EventType() string {
	return "ProposalAccepted"
}

// NewProposalAcceptedEvent creates a new ProposalAcceptedEvent
func NewProposalAcceptedEvent(p *Proposal) *ProposalAcceptedEvent {
	decidedAt := time.Now()
	if p.DecidedAt != nil {
		decidedAt = *p.DecidedAt
	}
	return &ProposalAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProposalAccepted", "Proposal", p.ID, p.TenantID),
		ProposalID:      p.ID,
		ProposalNumber:  p.ProposalNumber,
		ClientID:        p.ClientID,
		Total:           p.Totals.Total,
		DecidedAt:       decidedAt,
	}
}

// ProposalRejectedEvent is raised when a client rejects a proposal
type ProposalRejectedEvent struct {
	shared.BaseDomainEvent
	ProposalID     uuid.UUID `json:"proposal_id"`
	ProposalNumber string    `json:"proposal_number"`
	ClientID       uuid.UUID `json:"client_id"`
	DecisionNote   string    `json:"decision_note"`
	DecidedAt      time.Time `json:"decided_at"`
}

// EventType returns the event type name
func (e *ProposalRejectedEvent) EventType() string {
	return "ProposalRejected"
}

// NewProposalRejectedEvent creates a new ProposalRejectedEvent
func NewProposalRejectedEvent(p *Proposal) *ProposalRejectedEvent {
	decidedAt := time.Now()
	if p.DecidedAt != nil {
		decidedAt = *p.DecidedAt
	}
	return &ProposalRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProposalRejected", "Proposal", p.ID, p.TenantID),
		ProposalID:      p.ID,
		ProposalNumber:  p.ProposalNumber,
		ClientID:        p.ClientID,
		DecisionNote:    p.DecisionNote,
		DecidedAt:       decidedAt,
	}
}
