package billing

import (
	"context"
	"time"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SequenceRepository is the durable, atomically incrementing counter
// behind document numbering. One row per (tenant, bucket), created
// lazily on first increment.
type SequenceRepository interface {
	// Next atomically increments the counter for the bucket and
	// returns the post-increment value. The first call for an unseen
	// bucket returns 1. The increment must be a single indivisible
	// store operation so concurrent callers never receive the same
	// value. Fails with STORE_UNAVAILABLE when the store is
	// unreachable.
	Next(ctx context.Context, tenantID uuid.UUID, bucket string) (int64, error)

	// Current returns the last allocated value for the bucket without
	// incrementing, or 0 for an unseen bucket.
	Current(ctx context.Context, tenantID uuid.UUID, bucket string) (int64, error)
}

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	ClientID *uuid.UUID     // Filter by client
	Status   *InvoiceStatus // Filter by status
	FromDate *time.Time     // Filter by issue date range start
	ToDate   *time.Time     // Filter by issue date range end
	DueFrom  *time.Time     // Filter by due date range start
	DueTo    *time.Time     // Filter by due date range end
	Overdue  *bool          // Filter only past-due unpaid invoices
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindOverdue finds sent invoices whose due date has passed
	FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]Invoice, error)

	// FindDueReminders finds invoices with reminders enabled whose next
	// reminder date has arrived and that were not already reminded on
	// the asOf day
	FindDueReminders(ctx context.Context, asOf time.Time) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete soft deletes an invoice for a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts invoices for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (int64, error)

	// CountByStatus counts invoices by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus) (int64, error)

	// ExistsByNumber checks if a document number exists for a tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// ProposalFilter defines filtering options for proposal queries
type ProposalFilter struct {
	shared.Filter
	ClientID   *uuid.UUID      // Filter by client
	Status     *ProposalStatus // Filter by status
	FromDate   *time.Time      // Filter by issue date range start
	ToDate     *time.Time      // Filter by issue date range end
	ValidUntil *time.Time      // Filter by validity cutoff
}

// ProposalRepository defines the interface for proposal persistence
type ProposalRepository interface {
	// FindByID finds a proposal by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)

	// FindByIDForTenant finds a proposal by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Proposal, error)

	// FindByNumber finds a proposal by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Proposal, error)

	// FindAllForTenant finds all proposals for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProposalFilter) ([]Proposal, error)

	// Save creates or updates a proposal
	Save(ctx context.Context, proposal *Proposal) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, proposal *Proposal) error

	// Delete soft deletes a proposal for a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts proposals for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ProposalFilter) (int64, error)

	// CountByStatus counts proposals by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status ProposalStatus) (int64, error)

	// ExistsByNumber checks if a document number exists for a tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}
