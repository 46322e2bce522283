package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeTx satisfies pgx.Tx for wiring through the mocks; no method is ever
// called on it because the repositories themselves are mocked.
type fakeTx struct {
	pgx.Tx
}

func fulfillableTransaction() *domain.ExchangeTransaction {
	return &domain.ExchangeTransaction{
		TransactionID:   "t1",
		UserID:          "u1",
		VendorID:        "v1",
		FromCurrency:    "USD",
		ToCurrency:      "EUR",
		Amount:          decimal.NewFromInt(100),
		ConvertedAmount: decimal.NewFromInt(92),
		Status:          domain.StatusPending,
		AuditFields:     domain.AuditFields{CreatedAt: testNow.Add(-1 * time.Hour)},
	}
}

func TestFulfillTransaction(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	tx := &fakeTx{}
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)
	vendorRepo.On("Begin", mock.Anything).Return(tx, nil)
	vendorRepo.On("Rollback", mock.Anything, tx).Return(nil)
	vendorRepo.On("FindInventoryForUpdate", mock.Anything, tx, "v1", []string{"USD", "EUR"}).
		Return(map[string]domain.InventoryItem{
			"USD": {Currency: "USD", Amount: decimal.NewFromInt(1000)},
			"EUR": {Currency: "EUR", Amount: decimal.NewFromInt(500)},
		}, nil)
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", "USD", decimal.NewFromInt(100), "v1", testNow).Return(nil)
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", "EUR", decimal.NewFromInt(92).Neg(), "v1", testNow).Return(nil)
	txnRepo.On("MarkFulfilledInTx", mock.Anything, tx, "t1", "v1", "sig-abc", testNow).Return(nil)
	vendorRepo.On("Commit", mock.Anything, tx).Return(nil)

	txn, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig-abc")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, txn.Status)
	require.NotNil(t, txn.FulfillmentSignature)
	assert.Equal(t, "sig-abc", *txn.FulfillmentSignature)
	require.NotNil(t, txn.FulfilledAt)
	assert.Equal(t, testNow, *txn.FulfilledAt)

	vendorRepo.AssertExpectations(t)
	txnRepo.AssertExpectations(t)
}

func TestFulfillTransaction_RequiresSignature(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	_, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	txnRepo.AssertNotCalled(t, "FindTransactionByID", mock.Anything, mock.Anything)
}

func TestFulfillTransaction_WrongVendor(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)

	_, err := svc.FulfillTransaction(context.Background(), "other-vendor", "t1", "sig")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	vendorRepo.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestFulfillTransaction_NotPending(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	txn := fulfillableTransaction()
	txn.Status = domain.StatusCompleted
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(txn, nil)

	_, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFulfilled)
}

func TestFulfillTransaction_InsufficientTargetStock(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	tx := &fakeTx{}
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)
	vendorRepo.On("Begin", mock.Anything).Return(tx, nil)
	vendorRepo.On("Rollback", mock.Anything, tx).Return(nil)
	vendorRepo.On("FindInventoryForUpdate", mock.Anything, tx, "v1", []string{"USD", "EUR"}).
		Return(map[string]domain.InventoryItem{
			"USD": {Currency: "USD", Amount: decimal.NewFromInt(1000)},
			"EUR": {Currency: "EUR", Amount: decimal.NewFromInt(50)},
		}, nil)

	_, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientInventory)
	vendorRepo.AssertNotCalled(t, "AdjustInventoryInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	vendorRepo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestFulfillTransaction_MissingCurrencyRow(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	tx := &fakeTx{}
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)
	vendorRepo.On("Begin", mock.Anything).Return(tx, nil)
	vendorRepo.On("Rollback", mock.Anything, tx).Return(nil)
	vendorRepo.On("FindInventoryForUpdate", mock.Anything, tx, "v1", []string{"USD", "EUR"}).
		Return(map[string]domain.InventoryItem{
			"USD": {Currency: "USD", Amount: decimal.NewFromInt(1000)},
		}, nil)

	_, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig")
	assert.ErrorIs(t, err, apperrors.ErrCurrencyNotStocked)
}

func TestFulfillTransaction_LostRaceSurfacesAsAlreadyFulfilled(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	tx := &fakeTx{}
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)
	vendorRepo.On("Begin", mock.Anything).Return(tx, nil)
	vendorRepo.On("Rollback", mock.Anything, tx).Return(nil)
	vendorRepo.On("FindInventoryForUpdate", mock.Anything, tx, "v1", []string{"USD", "EUR"}).
		Return(map[string]domain.InventoryItem{
			"USD": {Currency: "USD", Amount: decimal.NewFromInt(1000)},
			"EUR": {Currency: "EUR", Amount: decimal.NewFromInt(500)},
		}, nil)
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", mock.Anything, mock.Anything, "v1", testNow).Return(nil)
	// Another settlement flipped the status between our read and the update.
	txnRepo.On("MarkFulfilledInTx", mock.Anything, tx, "t1", "v1", "sig", testNow).
		Return(apperrors.ErrAlreadyFulfilled)

	_, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFulfilled)
	vendorRepo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestFulfillTransaction_RetriesOnSerializationConflict(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	tx := &fakeTx{}
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)
	vendorRepo.On("Begin", mock.Anything).Return(tx, nil)
	vendorRepo.On("Rollback", mock.Anything, tx).Return(nil)
	vendorRepo.On("FindInventoryForUpdate", mock.Anything, tx, "v1", []string{"USD", "EUR"}).
		Return(map[string]domain.InventoryItem{
			"USD": {Currency: "USD", Amount: decimal.NewFromInt(1000)},
			"EUR": {Currency: "EUR", Amount: decimal.NewFromInt(500)},
		}, nil)

	// First attempt hits a serialization failure, the second succeeds.
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", "USD", mock.Anything, "v1", testNow).
		Return(apperrors.ErrConflict).Once()
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", "USD", mock.Anything, "v1", testNow).
		Return(nil)
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", "EUR", mock.Anything, "v1", testNow).
		Return(nil)
	txnRepo.On("MarkFulfilledInTx", mock.Anything, tx, "t1", "v1", "sig", testNow).Return(nil)
	vendorRepo.On("Commit", mock.Anything, tx).Return(nil)

	txn, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, txn.Status)
}

func TestFulfillTransaction_GivesUpAfterMaxRetries(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	vendorRepo := new(MockVendorRepository)
	svc := services.NewFulfillmentService(txnRepo, vendorRepo, clock.NewFixed(testNow))

	tx := &fakeTx{}
	txnRepo.On("FindTransactionByID", mock.Anything, "t1").Return(fulfillableTransaction(), nil)
	vendorRepo.On("Begin", mock.Anything).Return(tx, nil)
	vendorRepo.On("Rollback", mock.Anything, tx).Return(nil)
	vendorRepo.On("FindInventoryForUpdate", mock.Anything, tx, "v1", []string{"USD", "EUR"}).
		Return(map[string]domain.InventoryItem{
			"USD": {Currency: "USD", Amount: decimal.NewFromInt(1000)},
			"EUR": {Currency: "EUR", Amount: decimal.NewFromInt(500)},
		}, nil)
	vendorRepo.On("AdjustInventoryInTx", mock.Anything, tx, "v1", "USD", mock.Anything, "v1", testNow).
		Return(apperrors.ErrConflict)

	_, err := svc.FulfillTransaction(context.Background(), "v1", "t1", "sig")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	vendorRepo.AssertNumberOfCalls(t, "Begin", 3)
}
