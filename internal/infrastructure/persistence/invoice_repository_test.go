package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func invoiceRows(invoiceID, tenantID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "version", "invoice_number", "client_id", "client_name",
		"currency", "issue_date", "due_date", "subtotal", "tax_rate", "tax_amount",
		"discount_rate", "discount_amount", "total", "status",
	}).AddRow(
		invoiceID, tenantID, 1, "INV-2508-001", uuid.New(), "Acme Corp",
		"USD", now.Add(-10*24*time.Hour), now.Add(20*24*time.Hour),
		decimal.NewFromInt(130), decimal.NewFromInt(10), decimal.NewFromInt(13),
		decimal.NewFromInt(5), decimal.RequireFromString("6.5"), decimal.RequireFromString("136.5"), "draft",
	)
}

func TestGormInvoiceRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND id = \$2.*LIMIT .*`).
			WillReturnRows(invoiceRows(invoiceID, tenantID))

		invoice, err := repo.FindByIDForTenant(context.Background(), tenantID, invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.Equal(t, "INV-2508-001", invoice.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusDraft, invoice.Status)
		assert.True(t, invoice.Totals.Total.Equal(decimal.RequireFromString("136.5")))
	})

	t.Run("returns NOT_FOUND for missing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices"`).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, invoice)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("stale version is rejected", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		item, err := billing.NewLineItem("Design work", decimal.NewFromInt(2), decimal.NewFromInt(50))
		require.NoError(t, err)
		inv, err := billing.NewInvoice(
			tenantID, uuid.New(), "Acme Corp", "",
			valueobject.EmptyAddress(), "USD",
			time.Now(), time.Now().Add(30*24*time.Hour),
			billing.LineItems{item}, decimal.Zero, decimal.Zero,
		)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), inv)

		assert.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestGormInvoiceRepository_ExistsByNumber(t *testing.T) {
	repo, mock, mockDB := newMockInvoiceRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND invoice_number = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByNumber(context.Background(), tenantID, "INV-2508-001")

	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestGormInvoiceRepository_FindDueReminders(t *testing.T) {
	repo, mock, mockDB := newMockInvoiceRepository(t)
	defer mockDB.Close()

	invoiceID := uuid.New()
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE reminders_enabled = \$1 AND next_reminder_date IS NOT NULL AND next_reminder_date <= \$2.*status IN.*last_reminder_date IS NULL OR last_reminder_date <`).
		WillReturnRows(invoiceRows(invoiceID, tenantID))

	invoices, err := repo.FindDueReminders(context.Background(), time.Now())

	assert.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, invoiceID, invoices[0].ID)
}
