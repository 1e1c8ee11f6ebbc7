package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSequenceRepository implements SequenceRepository using GORM. The
// increment is a single upsert so concurrent callers always observe
// distinct values; the row is created lazily on the first increment of
// a bucket.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next atomically increments the counter for the bucket and returns
// the post-increment value. The first call for an unseen bucket
// returns 1.
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, bucket string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (id, tenant_id, bucket, value, created_at, updated_at)
		VALUES (?, ?, ?, 1, NOW(), NOW())
		ON CONFLICT (tenant_id, bucket)
		DO UPDATE SET value = sequence_counters.value + 1, updated_at = NOW()
		RETURNING value`,
		uuid.New(), tenantID, bucket,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return value, nil
}

// Current returns the last allocated value for the bucket without
// incrementing, or 0 for an unseen bucket.
func (r *GormSequenceRepository) Current(ctx context.Context, tenantID uuid.UUID, bucket string) (int64, error) {
	var model models.SequenceCounterModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND bucket = ?", tenantID, bucket).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return model.Value, nil
}
