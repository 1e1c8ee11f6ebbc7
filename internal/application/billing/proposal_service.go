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

// ProposalService provides application-level proposal operations,
// including acceptance workflow and conversion into invoices.
type ProposalService struct {
	proposalRepo   billing.ProposalRepository
	invoiceRepo    billing.InvoiceRepository
	numberGen      *NumberGenerator
	eventPublisher shared.EventPublisher
	metrics        *telemetry.BillingMetrics
	logger         *zap.Logger
}

// ProposalServiceOption is a functional option for configuring ProposalService
type ProposalServiceOption func(*ProposalService)

// WithProposalEventPublisher attaches a domain event publisher
func WithProposalEventPublisher(publisher shared.EventPublisher) ProposalServiceOption {
	return func(s *ProposalService) {
		s.eventPublisher = publisher
	}
}

// WithProposalMetrics attaches billing metrics
func WithProposalMetrics(metrics *telemetry.BillingMetrics) ProposalServiceOption {
	return func(s *ProposalService) {
		s.metrics = metrics
	}
}

// NewProposalService creates a new ProposalService
func NewProposalService(
	proposalRepo billing.ProposalRepository,
	invoiceRepo billing.InvoiceRepository,
	numberGen *NumberGenerator,
	logger *zap.Logger,
	opts ...ProposalServiceOption,
) *ProposalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProposalService{
		proposalRepo: proposalRepo,
		invoiceRepo:  invoiceRepo,
		numberGen:    numberGen,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===================== Requests and Responses =====================

// CreateProposalRequest is the payload for creating a proposal
type CreateProposalRequest struct {
	ClientID      uuid.UUID         `json:"client_id" binding:"required"`
	ClientName    string            `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail   string            `json:"client_email" binding:"omitempty,email"`
	ClientAddress *AddressRequest   `json:"client_address"`
	Currency      string            `json:"currency" binding:"omitempty,currency"`
	IssueDate     *time.Time        `json:"issue_date"`
	ValidUntil    *time.Time        `json:"valid_until"`
	Items         []LineItemRequest `json:"items" binding:"required,min=1"`
	TaxRate       decimal.Decimal   `json:"tax_rate"`
	DiscountRate  decimal.Decimal   `json:"discount_rate"`
	Notes         string            `json:"notes" binding:"max=1000"`
	Terms         string            `json:"terms" binding:"max=1000"`
	FormatType    string            `json:"format_type" binding:"omitempty,oneof=professional creative technical simple"`
	Tone          string            `json:"tone" binding:"omitempty,oneof=professional formal friendly confident consultative"`
}

// UpdateProposalRequest is the payload for updating proposal content
type UpdateProposalRequest struct {
	Items        []LineItemRequest `json:"items" binding:"omitempty,min=1"`
	TaxRate      decimal.Decimal   `json:"tax_rate"`
	DiscountRate decimal.Decimal   `json:"discount_rate"`
	ValidUntil   *time.Time        `json:"valid_until"`
	Notes        *string           `json:"notes" binding:"omitempty,max=1000"`
	Terms        *string           `json:"terms" binding:"omitempty,max=1000"`
}

// SendProposalRequest is the payload for sending a proposal
type SendProposalRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,email"`
}

// DecideProposalRequest carries an optional note for accept or reject
type DecideProposalRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// ProposalResponse represents a proposal in API responses
type ProposalResponse struct {
	ID             uuid.UUID               `json:"id"`
	TenantID       uuid.UUID               `json:"tenant_id"`
	ProposalNumber string                  `json:"proposal_number"`
	ClientID       uuid.UUID               `json:"client_id"`
	ClientName     string                  `json:"client_name"`
	ClientEmail    string                  `json:"client_email,omitempty"`
	ClientAddress  *AddressRequest         `json:"client_address,omitempty"`
	Currency       string                  `json:"currency"`
	IssueDate      time.Time               `json:"issue_date"`
	ValidUntil     time.Time               `json:"valid_until"`
	Items          []LineItemResponse      `json:"items"`
	Totals         FinancialTotalsResponse `json:"totals"`
	Status         string                  `json:"status"`
	Notes          string                  `json:"notes,omitempty"`
	Terms          string                  `json:"terms,omitempty"`
	FormatType     string                  `json:"format_type,omitempty"`
	Tone           string                  `json:"tone,omitempty"`
	SentDate       *time.Time              `json:"sent_date,omitempty"`
	SentTo         []string                `json:"sent_to,omitempty"`
	ViewedDate     *time.Time              `json:"viewed_date,omitempty"`
	ViewCount      int                     `json:"view_count"`
	DownloadCount  int                     `json:"download_count"`
	DecidedAt      *time.Time              `json:"decided_at,omitempty"`
	DecisionNote   string                  `json:"decision_note,omitempty"`
	IsExpired      bool                    `json:"is_expired"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Version        int                     `json:"version"`
}

// ProposalListFilter defines filtering options for proposal list queries
type ProposalListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ===================== Operations =====================

// CreateProposal creates and numbers a new proposal
func (s *ProposalService) CreateProposal(ctx context.Context, tenantID uuid.UUID, req CreateProposalRequest) (*ProposalResponse, error) {
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
	var validUntil time.Time
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	p, err := billing.NewProposal(
		tenantID,
		req.ClientID,
		req.ClientName,
		req.ClientEmail,
		address,
		valueobject.Currency(req.Currency),
		issueDate,
		validUntil,
		items,
		req.TaxRate,
		req.DiscountRate,
	)
	if err != nil {
		return nil, err
	}
	p.Notes = req.Notes
	p.Terms = req.Terms
	if req.FormatType != "" {
		p.FormatType = req.FormatType
	}
	if req.Tone != "" {
		p.Tone = req.Tone
	}

	number := s.numberGen.Generate(ctx, tenantID, billing.DocumentTypeProposal, issueDate)
	if err := p.AssignNumber(number); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishProposalEvents(ctx, p)

	s.logger.Info("Proposal created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("proposal_id", p.ID.String()),
		zap.String("proposal_number", p.ProposalNumber),
	)

	return toProposalResponse(p, now), nil
}

// GetProposal returns a proposal by ID
func (s *ProposalService) GetProposal(ctx context.Context, tenantID, id uuid.UUID) (*ProposalResponse, error) {
	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toProposalResponse(p, time.Now()), nil
}

// ListProposals lists proposals with filtering
func (s *ProposalService) ListProposals(ctx context.Context, tenantID uuid.UUID, filter ProposalListFilter) ([]ProposalResponse, int64, error) {
	now := time.Now()

	domainFilter := billing.ProposalFilter{
		ClientID: filter.ClientID,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := billing.ProposalStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid proposal status filter")
		}
		domainFilter.Status = &status
	}

	proposals, err := s.proposalRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.proposalRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProposalResponse, len(proposals))
	for i := range proposals {
		responses[i] = *toProposalResponse(&proposals[i], now)
	}
	return responses, total, nil
}

// UpdateProposal recomputes the proposal content from new inputs
func (s *ProposalService) UpdateProposal(ctx context.Context, tenantID, id uuid.UUID, req UpdateProposalRequest) (*ProposalResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items, err := toLineItems(req.Items)
		if err != nil {
			return nil, err
		}
		if err := p.UpdateDetails(items, req.TaxRate, req.DiscountRate); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		p.ValidUntil = *req.ValidUntil
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Terms != nil {
		p.Terms = *req.Terms
	}

	if err := s.proposalRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishProposalEvents(ctx, p)

	return toProposalResponse(p, now), nil
}

// GenerateProposal marks a draft proposal as generated
func (s *ProposalService) GenerateProposal(ctx context.Context, tenantID, id uuid.UUID) (*ProposalResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := p.MarkGenerated(now); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	return toProposalResponse(p, now), nil
}

// SendProposal records a delivery and moves the proposal to sent
func (s *ProposalService) SendProposal(ctx context.Context, tenantID, id uuid.UUID, req SendProposalRequest) (*ProposalResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := p.MarkSent(req.Recipients, now); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishProposalEvents(ctx, p)

	return toProposalResponse(p, now), nil
}

// ViewProposal records a client view
func (s *ProposalService) ViewProposal(ctx context.Context, tenantID, id uuid.UUID) (*ProposalResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	p.MarkViewed(now)

	if err := s.proposalRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	return toProposalResponse(p, now), nil
}

// DownloadProposal records a document download
func (s *ProposalService) DownloadProposal(ctx context.Context, tenantID, id uuid.UUID) (*ProposalResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	p.RecordDownload(now)

	if err := s.proposalRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	return toProposalResponse(p, now), nil
}

// AcceptProposal records client acceptance
func (s *ProposalService) AcceptProposal(ctx context.Context, tenantID, id uuid.UUID, req DecideProposalRequest) (*ProposalResponse, error) {
	return s.decide(ctx, tenantID, id, req.Note, true)
}

// RejectProposal records client rejection
func (s *ProposalService) RejectProposal(ctx context.Context, tenantID, id uuid.UUID, req DecideProposalRequest) (*ProposalResponse, error) {
	return s.decide(ctx, tenantID, id, req.Note, false)
}

func (s *ProposalService) decide(ctx context.Context, tenantID, id uuid.UUID, note string, accepted bool) (*ProposalResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if accepted {
		err = p.Accept(note, now)
	} else {
		err = p.Reject(note, now)
	}
	if err != nil {
		return nil, err
	}

	if err := s.proposalRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishProposalEvents(ctx, p)

	if s.metrics != nil {
		s.metrics.RecordProposalDecision(ctx, tenantID, string(p.Status))
	}

	return toProposalResponse(p, now), nil
}

// DuplicateProposal clones a proposal into a freshly numbered draft
func (s *ProposalService) DuplicateProposal(ctx context.Context, tenantID, id uuid.UUID) (*ProposalResponse, error) {
	now := time.Now()

	source, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	clone := source.Duplicate(now)
	number := s.numberGen.Generate(ctx, tenantID, billing.DocumentTypeProposal, clone.IssueDate)
	if err := clone.AssignNumber(number); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Save(ctx, clone); err != nil {
		return nil, err
	}
	s.publishProposalEvents(ctx, clone)

	return toProposalResponse(clone, now), nil
}

// ConvertProposalToInvoice builds and persists a draft invoice from an
// accepted proposal. The invoice receives its own number from the
// invoice sequence; the proposal is left unchanged.
func (s *ProposalService) ConvertProposalToInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := time.Now()

	p, err := s.findProposal(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	inv, err := p.ConvertToInvoice(now)
	if err != nil {
		return nil, err
	}
	inv.Notes = p.Notes
	inv.Terms = p.Terms

	number := s.numberGen.Generate(ctx, tenantID, billing.DocumentTypeInvoice, inv.IssueDate)
	if err := inv.AssignNumber(number); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishInvoiceEvents(ctx, inv)

	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, tenantID)
	}
	s.logger.Info("Proposal converted to invoice",
		zap.String("tenant_id", tenantID.String()),
		zap.String("proposal_id", p.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
	)

	return toInvoiceResponse(inv, now), nil
}

// DeleteProposal soft deletes a proposal
func (s *ProposalService) DeleteProposal(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findProposal(ctx, tenantID, id); err != nil {
		return err
	}
	return s.proposalRepo.Delete(ctx, tenantID, id)
}

// ===================== Helpers =====================

func (s *ProposalService) findProposal(ctx context.Context, tenantID, id uuid.UUID) (*billing.Proposal, error) {
	p, err := s.proposalRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Proposal not found")
	}
	return p, nil
}

func (s *ProposalService) publishProposalEvents(ctx context.Context, p *billing.Proposal) {
	if s.eventPublisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	p.ClearDomainEvents()
}

func (s *ProposalService) publishInvoiceEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	inv.ClearDomainEvents()
}

func toProposalResponse(p *billing.Proposal, now time.Time) *ProposalResponse {
	return &ProposalResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		ProposalNumber: p.ProposalNumber,
		ClientID:       p.ClientID,
		ClientName:     p.ClientName,
		ClientEmail:    p.ClientEmail,
		ClientAddress:  toAddressRequest(p.ClientAddress),
		Currency:       string(p.Currency),
		IssueDate:      p.IssueDate,
		ValidUntil:     p.ValidUntil,
		Items:          toLineItemResponses(p.Items),
		Totals: FinancialTotalsResponse{
			Subtotal:       p.Totals.Subtotal,
			TaxRate:        p.Totals.TaxRate,
			TaxAmount:      p.Totals.TaxAmount,
			DiscountRate:   p.Totals.DiscountRate,
			DiscountAmount: p.Totals.DiscountAmount,
			Total:          p.Totals.Total,
		},
		Status:        string(p.Status),
		Notes:         p.Notes,
		Terms:         p.Terms,
		FormatType:    p.FormatType,
		Tone:          p.Tone,
		SentDate:      p.SentDate,
		SentTo:        p.SentTo,
		ViewedDate:    p.ViewedDate,
		ViewCount:     p.ViewCount,
		DownloadCount: p.DownloadCount,
		DecidedAt:     p.DecidedAt,
		DecisionNote:  p.DecisionNote,
		IsExpired:     p.IsExpired(now),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
