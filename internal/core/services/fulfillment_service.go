package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
)

// maxSettlementAttempts bounds retries when the database reports a
// serialization failure between concurrent settlements.
const maxSettlementAttempts = 3

type fulfillmentService struct {
	txnRepo    portsrepo.TransactionRepositoryWithTx
	vendorRepo portsrepo.VendorRepositoryWithTx
	clk        clock.Clock
}

// NewFulfillmentService creates the settlement executor.
func NewFulfillmentService(txnRepo portsrepo.TransactionRepositoryWithTx, vendorRepo portsrepo.VendorRepositoryWithTx, clk clock.Clock) portssvc.FulfillmentSvcFacade {
	return &fulfillmentService{
		txnRepo:    txnRepo,
		vendorRepo: vendorRepo,
		clk:        clk,
	}
}

var _ portssvc.FulfillmentSvcFacade = (*fulfillmentService)(nil)

// FulfillTransaction settles a pending transaction in one database
// transaction: the vendor's source-currency stock grows by the paid amount,
// the target-currency stock shrinks by the delivered amount, and the
// transaction flips to completed carrying the vendor's signature. Inventory
// rows are locked first so concurrent settlements against the same vendor
// serialize; the conditional status flip guarantees exactly one winner per
// transaction.
func (s *fulfillmentService) FulfillTransaction(ctx context.Context, vendorID, transactionID, signature string) (*domain.ExchangeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(signature) == "" {
		return nil, fmt.Errorf("%w: fulfillment signature is required", apperrors.ErrValidation)
	}

	var lastErr error
	for attempt := 1; attempt <= maxSettlementAttempts; attempt++ {
		txn, err := s.settleOnce(ctx, vendorID, transactionID, signature)
		if err == nil {
			logger.Info("Transaction fulfilled",
				slog.String("transaction_id", transactionID),
				slog.String("vendor_id", vendorID),
				slog.Int("attempt", attempt),
			)
			return txn, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		lastErr = err
		logger.Warn("Settlement conflict, retrying",
			slog.String("transaction_id", transactionID),
			slog.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("settlement gave up after %d attempts: %w", maxSettlementAttempts, lastErr)
}

func (s *fulfillmentService) settleOnce(ctx context.Context, vendorID, transactionID, signature string) (*domain.ExchangeTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction for settlement: %w", err)
	}
	if txn.VendorID != vendorID {
		return nil, fmt.Errorf("%w: transaction is not assigned to vendor", apperrors.ErrForbidden)
	}
	if txn.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: transaction is %s", apperrors.ErrAlreadyFulfilled, txn.Status)
	}

	tx, err := s.vendorRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.vendorRepo.Rollback(ctx, tx)

	// Lock both inventory rows up front to fix the lock order across
	// concurrent settlements for this vendor.
	locked, err := s.vendorRepo.FindInventoryForUpdate(ctx, tx, vendorID, []string{txn.FromCurrency, txn.ToCurrency})
	if err != nil {
		return nil, err
	}
	if _, ok := locked[txn.FromCurrency]; !ok {
		return nil, fmt.Errorf("%w: vendor does not stock %s", apperrors.ErrCurrencyNotStocked, txn.FromCurrency)
	}
	target, ok := locked[txn.ToCurrency]
	if !ok {
		return nil, fmt.Errorf("%w: vendor does not stock %s", apperrors.ErrCurrencyNotStocked, txn.ToCurrency)
	}
	if target.Amount.LessThan(txn.ConvertedAmount) {
		return nil, fmt.Errorf("%w: need %s %s, have %s", apperrors.ErrInsufficientInventory, txn.ConvertedAmount, txn.ToCurrency, target.Amount)
	}

	now := s.clk.Now()

	// The customer's payment lands in the vendor's source-currency stock.
	if err := s.vendorRepo.AdjustInventoryInTx(ctx, tx, vendorID, txn.FromCurrency, txn.Amount, vendorID, now); err != nil {
		return nil, err
	}
	// The delivered amount leaves the target-currency stock. The amount guard
	// re-checks under the lock, so a stale read above cannot overdraw.
	if err := s.vendorRepo.AdjustInventoryInTx(ctx, tx, vendorID, txn.ToCurrency, txn.ConvertedAmount.Neg(), vendorID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.MarkFulfilledInTx(ctx, tx, transactionID, vendorID, signature, now); err != nil {
		return nil, err
	}

	if err := s.vendorRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn.Status = domain.StatusCompleted
	txn.FulfillmentSignature = &signature
	txn.FulfilledAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = vendorID
	return txn, nil
}
