package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindDueReminders(ctx context.Context, asOf time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status billing.InvoiceStatus) (int64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

// MockSequenceRepository is a mock implementation of SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, bucket string) (int64, error) {
	args := m.Called(ctx, tenantID, bucket)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) Current(ctx context.Context, tenantID uuid.UUID, bucket string) (int64, error) {
	args := m.Called(ctx, tenantID, bucket)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// Test helpers
func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestClientID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func newTestService(invoiceRepo *MockInvoiceRepository, seqRepo *MockSequenceRepository) *InvoiceService {
	gen := NewNumberGenerator(seqRepo, zap.NewNop())
	return NewInvoiceService(invoiceRepo, gen, zap.NewNop())
}

func testLineItemRequests() []LineItemRequest {
	return []LineItemRequest{
		{Description: "Design work", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
		{Description: "Hosting", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(30)},
	}
}

func newStoredInvoice(t *testing.T, tenantID uuid.UUID) *billing.Invoice {
	t.Helper()
	items := billing.LineItems{
		mustLineItem(t, "Design work", 2, 50),
		mustLineItem(t, "Hosting", 1, 30),
	}
	inv, err := billing.NewInvoice(
		tenantID, newTestClientID(), "Acme Corp", "billing@acme.test",
		valueobject.EmptyAddress(), "USD",
		time.Now().Add(-24*time.Hour), time.Now().Add(14*24*time.Hour),
		items, decimal.NewFromInt(10), decimal.NewFromInt(5),
	)
	assert.NoError(t, err)
	assert.NoError(t, inv.AssignNumber("INV-2508-001"))
	inv.ClearDomainEvents()
	return inv
}

func mustLineItem(t *testing.T, desc string, qty, rate float64) billing.LineItem {
	t.Helper()
	item, err := billing.NewLineItem(desc, decimal.NewFromFloat(qty), decimal.NewFromFloat(rate))
	assert.NoError(t, err)
	return item
}

func TestInvoiceService_CreateInvoice_Success(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	req := CreateInvoiceRequest{
		ClientID:     newTestClientID(),
		ClientName:   "Acme Corp",
		ClientEmail:  "billing@acme.test",
		Items:        testLineItemRequests(),
		TaxRate:      decimal.NewFromInt(10),
		DiscountRate: decimal.NewFromInt(5),
	}

	seqRepo.On("Next", ctx, tenantID, mock.AnythingOfType("string")).Return(int64(1), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.CreateInvoice(ctx, tenantID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "draft", result.Status)
	assert.True(t, strings.HasPrefix(result.InvoiceNumber, "INV-"))
	assert.True(t, strings.HasSuffix(result.InvoiceNumber, "-001"))
	assert.True(t, result.Totals.Subtotal.Equal(decimal.NewFromInt(130)))
	assert.True(t, result.Totals.Total.Equal(decimal.RequireFromString("136.5")))
	invoiceRepo.AssertExpectations(t)
	seqRepo.AssertExpectations(t)
}

func TestInvoiceService_CreateInvoice_CarriesDocumentAndRecurringFields(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	nextDate := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	parentID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	req := CreateInvoiceRequest{
		Title:              "September retainer",
		Description:        "Monthly design retainer",
		ClientID:           newTestClientID(),
		ClientName:         "Acme Corp",
		Items:              testLineItemRequests(),
		IsRecurring:        true,
		RecurringFrequency: "monthly",
		NextInvoiceDate:    &nextDate,
		ParentInvoiceID:    &parentID,
	}

	seqRepo.On("Next", ctx, tenantID, mock.AnythingOfType("string")).Return(int64(1), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.CreateInvoice(ctx, tenantID, req)

	assert.NoError(t, err)
	assert.Equal(t, "September retainer", result.Title)
	assert.Equal(t, "Monthly design retainer", result.Description)
	assert.True(t, result.IsRecurring)
	assert.Equal(t, "monthly", result.RecurringFrequency)
	assert.Equal(t, &nextDate, result.NextInvoiceDate)
	assert.Equal(t, &parentID, result.ParentInvoiceID)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_CreateInvoice_InvalidRecurringFrequency(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	req := CreateInvoiceRequest{
		ClientID:           newTestClientID(),
		ClientName:         "Acme Corp",
		Items:              testLineItemRequests(),
		RecurringFrequency: "daily",
	}

	result, err := service.CreateInvoice(context.Background(), newTestTenantID(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvoice_UnsupportedCurrency(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	req := CreateInvoiceRequest{
		ClientID:   newTestClientID(),
		ClientName: "Acme Corp",
		Currency:   "ZZZ",
		Items:      testLineItemRequests(),
	}

	result, err := service.CreateInvoice(context.Background(), newTestTenantID(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvoice_SequenceOutageUsesEmergencyNumber(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	req := CreateInvoiceRequest{
		ClientID:   newTestClientID(),
		ClientName: "Acme Corp",
		Items:      testLineItemRequests(),
	}

	seqRepo.On("Next", ctx, tenantID, mock.AnythingOfType("string")).
		Return(int64(0), shared.ErrStoreUnavailable)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.CreateInvoice(ctx, tenantID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, billing.IsEmergencyNumber(result.InvoiceNumber))
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_CreateInvoice_NoItems(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	req := CreateInvoiceRequest{
		ClientID:   newTestClientID(),
		ClientName: "Acme Corp",
	}

	result, err := service.CreateInvoice(context.Background(), newTestTenantID(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_GetInvoice_RefreshesOverdue(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)
	inv.DueDate = time.Now().Add(-48 * time.Hour)
	assert.NoError(t, inv.MarkSent([]string{"billing@acme.test"}, time.Now().Add(-72*time.Hour)))
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	result, err := service.GetInvoice(ctx, tenantID, inv.ID)

	assert.NoError(t, err)
	assert.Equal(t, "overdue", result.Status)
	assert.True(t, result.IsOverdue)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_GetInvoice_NoSaveWhenNotOverdue(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

	result, err := service.GetInvoice(ctx, tenantID, inv.ID)

	assert.NoError(t, err)
	assert.Equal(t, "draft", result.Status)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_GetInvoice_NotFound(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	id := uuid.New()

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, nil)

	result, err := service.GetInvoice(ctx, tenantID, id)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestInvoiceService_SendInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	result, err := service.SendInvoice(ctx, tenantID, inv.ID, SendInvoiceRequest{
		Recipients: []string{"billing@acme.test"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "sent", result.Status)
	assert.Equal(t, []string{"billing@acme.test"}, result.SentTo)
	assert.NotNil(t, result.SentDate)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_PayInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)
	assert.NoError(t, inv.MarkSent([]string{"billing@acme.test"}, time.Now()))
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	result, err := service.PayInvoice(ctx, tenantID, inv.ID, PayInvoiceRequest{
		PaymentMethod:    "bank_transfer",
		PaymentReference: "TX-123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "paid", result.Status)
	assert.Equal(t, "bank_transfer", result.PaymentMethod)
	assert.NotNil(t, result.PaymentDate)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_PayInvoice_DraftRejected(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

	result, err := service.PayInvoice(ctx, tenantID, inv.ID, PayInvoiceRequest{PaymentMethod: "cash"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_DuplicateInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)
	assert.NoError(t, inv.MarkSent([]string{"billing@acme.test"}, time.Now()))
	assert.NoError(t, inv.MarkPaid("cash", "", time.Now()))
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	seqRepo.On("Next", ctx, tenantID, mock.AnythingOfType("string")).Return(int64(7), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.DuplicateInvoice(ctx, tenantID, inv.ID)

	assert.NoError(t, err)
	assert.Equal(t, "draft", result.Status)
	assert.NotEqual(t, inv.ID, result.ID)
	assert.NotEqual(t, inv.InvoiceNumber, result.InvoiceNumber)
	assert.True(t, strings.HasSuffix(result.InvoiceNumber, "-007"))
	assert.Empty(t, result.PaymentMethod)
	assert.Nil(t, result.PaymentDate)
	assert.Equal(t, 0, result.ViewCount)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_CancelInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	result, err := service.CancelInvoice(ctx, tenantID, inv.ID, CancelInvoiceRequest{Reason: "duplicate entry"})

	assert.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_SetReminderSchedule(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)
	days := 7

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	result, err := service.SetReminderSchedule(ctx, tenantID, inv.ID, SetReminderScheduleRequest{
		Schedule: []ReminderRuleRequest{{DaysBeforeDue: &days, Channel: "email"}},
	})

	assert.NoError(t, err)
	assert.True(t, result.Reminders.Enabled)
	assert.Len(t, result.Reminders.Schedule, 1)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_SetReminderSchedule_InvalidRule(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

	result, err := service.SetReminderSchedule(ctx, tenantID, inv.ID, SetReminderScheduleRequest{
		Schedule: []ReminderRuleRequest{{Channel: "email"}},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_ProcessOverdueInvoices(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	now := time.Now()

	first := newStoredInvoice(t, tenantID)
	first.DueDate = now.Add(-48 * time.Hour)
	assert.NoError(t, first.MarkSent([]string{"a@acme.test"}, now.Add(-96*time.Hour)))
	first.ClearDomainEvents()
	second := newStoredInvoice(t, tenantID)
	second.DueDate = now.Add(-24 * time.Hour)
	assert.NoError(t, second.MarkSent([]string{"b@acme.test"}, now.Add(-96*time.Hour)))
	second.ClearDomainEvents()

	invoiceRepo.On("FindOverdue", ctx, tenantID, now).Return([]billing.Invoice{*first, *second}, nil)
	invoiceRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	count, err := service.ProcessOverdueInvoices(ctx, tenantID, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	invoiceRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
}

func TestInvoiceService_ProcessOverdueInvoices_SaveFailureContinues(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	now := time.Now()

	inv := newStoredInvoice(t, tenantID)
	inv.DueDate = now.Add(-48 * time.Hour)
	assert.NoError(t, inv.MarkSent([]string{"a@acme.test"}, now.Add(-96*time.Hour)))
	inv.ClearDomainEvents()

	invoiceRepo.On("FindOverdue", ctx, tenantID, now).Return([]billing.Invoice{*inv}, nil)
	invoiceRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*billing.Invoice")).
		Return(errors.New("version conflict"))

	count, err := service.ProcessOverdueInvoices(ctx, tenantID, now)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInvoiceService_DeleteInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	seqRepo := new(MockSequenceRepository)
	service := newTestService(invoiceRepo, seqRepo)

	ctx := context.Background()
	tenantID := newTestTenantID()
	inv := newStoredInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	invoiceRepo.On("Delete", ctx, tenantID, inv.ID).Return(nil)

	err := service.DeleteInvoice(ctx, tenantID, inv.ID)

	assert.NoError(t, err)
	invoiceRepo.AssertExpectations(t)
}
