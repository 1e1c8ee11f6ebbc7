package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockSequenceRepository(t *testing.T) (*GormSequenceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSequenceRepository(gormDB), mock, mockDB
}

func TestGormSequenceRepository_Next(t *testing.T) {
	t.Run("first increment of an unseen bucket returns 1", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO sequence_counters .* ON CONFLICT \(tenant_id, bucket\).*RETURNING value`).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))

		value, err := repo.Next(context.Background(), tenantID, "invoice-2508")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("subsequent increments return the post-increment value", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters .* ON CONFLICT`).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(42)))

		value, err := repo.Next(context.Background(), uuid.New(), "invoice-2508")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), value)
	})

	t.Run("store outage maps to STORE_UNAVAILABLE", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WillReturnError(errors.New("connection refused"))

		value, err := repo.Next(context.Background(), uuid.New(), "invoice-2508")

		assert.Error(t, err)
		assert.Equal(t, int64(0), value)
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	})
}

func TestGormSequenceRepository_Current(t *testing.T) {
	t.Run("returns last allocated value", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "bucket", "value"}).
			AddRow(uuid.New(), tenantID, "invoice-2508", int64(7))

		mock.ExpectQuery(`SELECT \* FROM "sequence_counters" WHERE tenant_id = \$1 AND bucket = \$2.*LIMIT .*`).
			WillReturnRows(rows)

		value, err := repo.Current(context.Background(), tenantID, "invoice-2508")

		assert.NoError(t, err)
		assert.Equal(t, int64(7), value)
	})

	t.Run("unseen bucket returns 0 without error", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "sequence_counters"`).
			WillReturnError(gorm.ErrRecordNotFound)

		value, err := repo.Current(context.Background(), uuid.New(), "proposal-2601")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), value)
	})
}
