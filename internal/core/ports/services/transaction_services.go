package services

import (
	"context"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionItem is one line of a batch checkout: an exchange against
// a chosen vendor, quoted client-side from a matcher offer.
type CreateTransactionItem struct {
	VendorID        string
	FromCurrency    string
	ToCurrency      string
	Amount          decimal.Decimal
	ConvertedAmount decimal.Decimal
}

// CreateTransactionsInput carries a batch checkout. All items share one
// payment method, delivery method, date and (for bank delivery) address.
type CreateTransactionsInput struct {
	UserID          string
	PaymentMethodID string
	DeliveryMethod  domain.DeliveryMethod
	DeliveryDate    time.Time
	AddressID       *string
	Items           []CreateTransactionItem
}

// ConvertTransactionInput carries the new terms for an in-place conversion of
// a pending transaction. The converted amount is re-quoted server-side from a
// fresh rate.
type ConvertTransactionInput struct {
	UserID        string
	TransactionID string
	ToCurrency    string
	Amount        decimal.Decimal
}

// TransactionSvcFacade defines the customer-facing transaction lifecycle.
type TransactionSvcFacade interface {
	// CreateTransactions validates the shared checkout fields once and then
	// persists one pending transaction per item. Item saves are independent:
	// a failure surfaces the first error, transactions already saved stay.
	CreateTransactions(ctx context.Context, input CreateTransactionsInput) ([]domain.ExchangeTransaction, error)

	// CancelTransaction cancels a pending transaction owned by the user.
	CancelTransaction(ctx context.Context, userID, transactionID string) (*domain.ExchangeTransaction, error)

	// ConvertTransaction redirects a pending transaction to a new target
	// currency within the gray period, archiving the previous terms.
	ConvertTransaction(ctx context.Context, input ConvertTransactionInput) (*domain.ExchangeTransaction, error)

	// GetTransaction retrieves a transaction visible to the caller.
	GetTransaction(ctx context.Context, callerID string, callerRole domain.UserRole, transactionID string) (*domain.ExchangeTransaction, error)

	// ListUserTransactions retrieves a page of the customer's transactions.
	ListUserTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error)

	// ListVendorTransactions retrieves a page of the transactions assigned to
	// the vendor.
	ListVendorTransactions(ctx context.Context, vendorID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error)
}

// FulfillmentSvcFacade defines vendor-side settlement of a pending
// transaction.
type FulfillmentSvcFacade interface {
	// FulfillTransaction settles a pending transaction atomically: the vendor's
	// inventory is rebalanced and the transaction is completed with a
	// fulfillment signature. Concurrent settlements of the same transaction
	// resolve to exactly one winner.
	FulfillTransaction(ctx context.Context, vendorID, transactionID, signature string) (*domain.ExchangeTransaction, error)
}
