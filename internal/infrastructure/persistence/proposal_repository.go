package persistence

import (
	"context"
	"errors"

	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProposalRepository implements ProposalRepository using GORM
type GormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GormProposalRepository
func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

// FindByID finds a proposal by its ID
func (r *GormProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Proposal, error) {
	var model models.ProposalModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a proposal by ID for a specific tenant
func (r *GormProposalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Proposal, error) {
	var model models.ProposalModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a proposal by its document number for a tenant
func (r *GormProposalRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Proposal, error) {
	var model models.ProposalModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND proposal_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all proposals for a tenant with filtering
func (r *GormProposalRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.ProposalFilter) ([]billing.Proposal, error) {
	var proposalModels []models.ProposalModel
	query := r.db.WithContext(ctx).Model(&models.ProposalModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyProposalFilter(query, filter)

	if err := query.Find(&proposalModels).Error; err != nil {
		return nil, err
	}
	proposals := make([]billing.Proposal, len(proposalModels))
	for i, model := range proposalModels {
		proposals[i] = *model.ToDomain()
	}
	return proposals, nil
}

// Save creates or updates a proposal
func (r *GormProposalRepository) Save(ctx context.Context, proposal *billing.Proposal) error {
	model := models.ProposalModelFromDomain(proposal)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormProposalRepository) SaveWithLock(ctx context.Context, proposal *billing.Proposal) error {
	model := models.ProposalModelFromDomain(proposal)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", proposal.ID, proposal.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// Delete soft deletes a proposal for a tenant
func (r *GormProposalRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProposalModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts proposals for a tenant
func (r *GormProposalRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.ProposalFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProposalModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyProposalFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts proposals by status for a tenant
func (r *GormProposalRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status billing.ProposalStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProposalModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if a document number exists for a tenant
func (r *GormProposalRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProposalModel{}).
		Where("tenant_id = ? AND proposal_number = ?", tenantID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyProposalFilter applies all filter options including pagination
func (r *GormProposalRepository) applyProposalFilter(query *gorm.DB, filter billing.ProposalFilter) *gorm.DB {
	query = r.applyProposalFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	query = query.Order(proposalSortColumns.OrderClause(filter.OrderBy, filter.OrderDir, "created_at"))

	return query
}

// applyProposalFilterWithoutPagination applies filter options without pagination
func (r *GormProposalRepository) applyProposalFilterWithoutPagination(query *gorm.DB, filter billing.ProposalFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("proposal_number ILIKE ? OR client_name ILIKE ? OR client_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("issue_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("issue_date <= ?", *filter.ToDate)
	}
	if filter.ValidUntil != nil {
		query = query.Where("valid_until <= ?", *filter.ValidUntil)
	}

	return query
}
