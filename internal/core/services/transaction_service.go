package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// conversionFee is the flat fee charged for every in-place conversion of a
// pending transaction, denominated in the transaction's source currency.
var conversionFee = decimal.NewFromInt(25)

// defaultGrayPeriodHours applies when no administrator has configured a window.
const defaultGrayPeriodHours float64 = 24

type transactionService struct {
	txnRepo      portsrepo.TransactionRepositoryWithTx
	vendorRepo   portsrepo.VendorReader
	checkoutRepo portsrepo.CheckoutRepositoryFacade
	settingsRepo portsrepo.SettingsReader
	rates        portssvc.RateSource
	clk          clock.Clock
}

// NewTransactionService creates the customer-facing transaction lifecycle service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	vendorRepo portsrepo.VendorReader,
	checkoutRepo portsrepo.CheckoutRepositoryFacade,
	settingsRepo portsrepo.SettingsReader,
	rates portssvc.RateSource,
	clk clock.Clock,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      txnRepo,
		vendorRepo:   vendorRepo,
		checkoutRepo: checkoutRepo,
		settingsRepo: settingsRepo,
		rates:        rates,
		clk:          clk,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransactions validates the shared checkout fields once and then
// persists one pending transaction per item. Item saves are independent: the
// first failure is surfaced and transactions already saved remain.
func (s *transactionService) CreateTransactions(ctx context.Context, input portssvc.CreateTransactionsInput) ([]domain.ExchangeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one checkout item is required", apperrors.ErrValidation)
	}
	if !input.DeliveryMethod.IsValid() {
		return nil, fmt.Errorf("%w: unknown delivery method %q", apperrors.ErrValidation, input.DeliveryMethod)
	}
	if input.DeliveryMethod == domain.DeliveryBank && (input.AddressID == nil || *input.AddressID == "") {
		return nil, fmt.Errorf("%w: bank delivery requires a delivery address", apperrors.ErrValidation)
	}

	// One payment method and (for bank delivery) one address cover the whole
	// batch; both must belong to the buyer.
	pm, err := s.checkoutRepo.FindPaymentMethodByID(ctx, input.PaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate payment method: %w", err)
	}
	if pm.UserID != input.UserID {
		return nil, fmt.Errorf("%w: payment method does not belong to user", apperrors.ErrForbidden)
	}

	deliveryAddressID := ""
	if input.DeliveryMethod == domain.DeliveryBank {
		addr, err := s.checkoutRepo.FindAddressByID(ctx, *input.AddressID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate delivery address: %w", err)
		}
		if addr.UserID != input.UserID {
			return nil, fmt.Errorf("%w: delivery address does not belong to user", apperrors.ErrForbidden)
		}
		deliveryAddressID = addr.AddressID
	}

	created := make([]domain.ExchangeTransaction, 0, len(input.Items))
	for i, item := range input.Items {
		item.FromCurrency = strings.ToUpper(item.FromCurrency)
		item.ToCurrency = strings.ToUpper(item.ToCurrency)
		if err := validateCreateItem(item); err != nil {
			return created, fmt.Errorf("item %d: %w", i, err)
		}

		// The vendor must still be able to cover the quoted converted amount.
		vendor, err := s.vendorRepo.FindVendorByID(ctx, item.VendorID)
		if err != nil {
			return created, fmt.Errorf("item %d: failed to load vendor: %w", i, err)
		}
		stock, ok := vendor.InventoryFor(item.ToCurrency)
		if !ok {
			return created, fmt.Errorf("item %d: %w: vendor does not stock %s", i, apperrors.ErrCurrencyNotStocked, item.ToCurrency)
		}
		if stock.Amount.LessThan(item.ConvertedAmount) {
			return created, fmt.Errorf("item %d: %w: vendor cannot cover %s %s", i, apperrors.ErrInsufficientInventory, item.ConvertedAmount, item.ToCurrency)
		}

		now := s.clk.Now()
		txn := domain.ExchangeTransaction{
			TransactionID:     uuid.NewString(),
			UserID:            input.UserID,
			VendorID:          item.VendorID,
			FromCurrency:      item.FromCurrency,
			ToCurrency:        item.ToCurrency,
			Amount:            item.Amount,
			ConvertedAmount:   item.ConvertedAmount,
			ExchangeRate:      item.ConvertedAmount.Div(item.Amount),
			PaymentMethodID:   input.PaymentMethodID,
			DeliveryAddressID: deliveryAddressID,
			DeliveryMethod:    input.DeliveryMethod,
			DeliveryDate:      input.DeliveryDate,
			Status:            domain.StatusPending,
			ConversionFee:     decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     input.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: input.UserID,
			},
		}

		if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("user_id", input.UserID))
			return created, fmt.Errorf("item %d: failed to create transaction: %w", i, err)
		}
		created = append(created, txn)

		logger.Info("Transaction created",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("vendor_id", txn.VendorID),
			slog.String("pair", txn.FromCurrency+"/"+txn.ToCurrency),
		)
	}

	return created, nil
}

func validateCreateItem(item portssvc.CreateTransactionItem) error {
	if item.VendorID == "" {
		return fmt.Errorf("%w: vendor ID is required", apperrors.ErrValidation)
	}
	if len(item.FromCurrency) != 3 || len(item.ToCurrency) != 3 {
		return fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if item.FromCurrency == item.ToCurrency {
		return fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if item.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if item.ConvertedAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: converted amount must be positive", apperrors.ErrValidation)
	}
	return nil
}

// CancelTransaction cancels a pending transaction owned by the user, provided
// the gray period has not elapsed.
func (s *transactionService) CancelTransaction(ctx context.Context, userID, transactionID string) (*domain.ExchangeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.loadOwnedPending(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkGrayPeriod(ctx, *txn); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	if err := s.txnRepo.MarkCancelled(ctx, transactionID, userID, now); err != nil {
		logger.Warn("Cancellation did not apply", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	txn.Status = domain.StatusCancelled
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	logger.Info("Transaction cancelled", slog.String("transaction_id", transactionID), slog.String("user_id", userID))
	return txn, nil
}

// ConvertTransaction redirects a pending transaction to a new target currency
// within the gray period. The converted amount is re-quoted from a fresh rate,
// the previous terms are archived in the conversion history, and a flat fee
// accrues on each conversion.
func (s *transactionService) ConvertTransaction(ctx context.Context, input portssvc.ConvertTransactionInput) (*domain.ExchangeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	input.ToCurrency = strings.ToUpper(input.ToCurrency)
	if len(input.ToCurrency) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	txn, err := s.loadOwnedPending(ctx, input.UserID, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if input.ToCurrency == txn.FromCurrency {
		return nil, fmt.Errorf("%w: cannot convert to the source currency", apperrors.ErrValidation)
	}
	if err := s.checkGrayPeriod(ctx, *txn); err != nil {
		return nil, err
	}

	// Re-quote the new pair from a fresh rate. A rate failure leaves the
	// transaction untouched.
	rate, err := s.rates.GetPairRate(ctx, txn.FromCurrency, input.ToCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to quote conversion: %w", err)
	}
	convertedAmount := input.Amount.Mul(rate)

	// The assigned vendor must be able to cover the new target currency.
	vendor, err := s.vendorRepo.FindVendorByID(ctx, txn.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	item, ok := vendor.InventoryFor(input.ToCurrency)
	if !ok {
		return nil, fmt.Errorf("%w: vendor does not stock %s", apperrors.ErrCurrencyNotStocked, input.ToCurrency)
	}
	if item.Amount.LessThan(convertedAmount) {
		return nil, fmt.Errorf("%w: vendor cannot cover %s %s", apperrors.ErrInsufficientInventory, convertedAmount, input.ToCurrency)
	}

	now := s.clk.Now()
	snapshot := txn.Snapshot(now)

	txn.ToCurrency = input.ToCurrency
	txn.Amount = input.Amount
	txn.ConvertedAmount = convertedAmount
	txn.ExchangeRate = rate
	txn.ConversionFee = txn.ConversionFee.Add(conversionFee)
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = input.UserID

	if err := s.txnRepo.ApplyConversion(ctx, *txn, snapshot); err != nil {
		logger.Warn("Conversion did not apply", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to convert transaction: %w", err)
	}

	txn.ConversionHistory = append(txn.ConversionHistory, snapshot)

	logger.Info("Transaction converted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("new_target", txn.ToCurrency),
		slog.String("total_fee", txn.ConversionFee.String()),
	)
	return txn, nil
}

// GetTransaction retrieves a transaction visible to the caller: the owning
// customer, the assigned vendor, or an administrator.
func (s *transactionService) GetTransaction(ctx context.Context, callerID string, callerRole domain.UserRole, transactionID string) (*domain.ExchangeTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if callerRole != domain.RoleAdmin && txn.UserID != callerID && txn.VendorID != callerID {
		return nil, fmt.Errorf("%w: transaction is not visible to caller", apperrors.ErrForbidden)
	}
	return txn, nil
}

// ListUserTransactions retrieves a page of the customer's transactions.
func (s *transactionService) ListUserTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error) {
	txns, token, err := s.txnRepo.ListTransactionsByUser(ctx, userID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list user transactions: %w", err)
	}
	return txns, token, nil
}

// ListVendorTransactions retrieves a page of the transactions assigned to the vendor.
func (s *transactionService) ListVendorTransactions(ctx context.Context, vendorID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error) {
	txns, token, err := s.txnRepo.ListTransactionsByVendor(ctx, vendorID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list vendor transactions: %w", err)
	}
	return txns, token, nil
}

// loadOwnedPending fetches a transaction and verifies ownership and that it is
// still pending. A transaction owned by someone else, or no longer pending, is
// reported as not found so callers cannot probe other users' transactions.
func (s *transactionService) loadOwnedPending(ctx context.Context, userID, transactionID string) (*domain.ExchangeTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("%w: no pending transaction %s for user", apperrors.ErrNotFound, transactionID)
	}
	if txn.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: no pending transaction %s for user", apperrors.ErrNotFound, transactionID)
	}
	return txn, nil
}

// checkGrayPeriod verifies the transaction is still inside the modification
// window. The window anchors on CreatedAt, which never changes, so repeated
// conversions cannot extend it. Elapsed time exactly equal to the window still
// passes.
func (s *transactionService) checkGrayPeriod(ctx context.Context, txn domain.ExchangeTransaction) error {
	gp, err := s.settingsRepo.GetGrayPeriod(ctx)
	if err != nil {
		return fmt.Errorf("failed to read gray period: %w", err)
	}
	hours := gp.Hours
	if !gp.IsSet() {
		hours = defaultGrayPeriodHours
	}

	elapsed := s.clk.Now().Sub(txn.CreatedAt).Hours()
	if elapsed > hours {
		return fmt.Errorf("%w: %.2f hours elapsed, window is %.2f hours", apperrors.ErrGrayPeriodExpired, elapsed, hours)
	}
	return nil
}
