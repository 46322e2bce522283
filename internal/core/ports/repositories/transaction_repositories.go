package repositories

import (
	"context"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for exchange transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its conversion history.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.ExchangeTransaction, error)

	// ListTransactionsByUser retrieves a page of a customer's transactions,
	// newest first, with a token for the next page.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error)

	// ListTransactionsByVendor retrieves a page of the transactions assigned to
	// a vendor, newest first.
	ListTransactionsByVendor(ctx context.Context, vendorID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error)
}

// TransactionWriter defines the lifecycle mutations owned by the transaction
// lifecycle manager.
type TransactionWriter interface {
	// SaveTransaction persists a newly created transaction.
	SaveTransaction(ctx context.Context, txn domain.ExchangeTransaction) error

	// MarkCancelled flips a pending transaction to cancelled. The update is
	// conditional on status still being pending; a lost race surfaces as
	// ErrConflict.
	MarkCancelled(ctx context.Context, transactionID, userID string, now time.Time) error

	// ApplyConversion persists an in-place conversion: the pre-conversion
	// snapshot is appended to the history and the live row is overwritten with
	// the transaction's new terms, conditional on status still being pending.
	ApplyConversion(ctx context.Context, txn domain.ExchangeTransaction, snapshot domain.Conversion) error
}

// TransactionSettler defines the status transition used by settlement. Must be
// called within a database transaction.
type TransactionSettler interface {
	// MarkFulfilledInTx flips a pending transaction belonging to the vendor to
	// completed, stamping the fulfillment signature and time. The update is
	// conditional on status still being pending; zero rows affected surfaces
	// as ErrAlreadyFulfilled.
	MarkFulfilledInTx(ctx context.Context, tx pgx.Tx, transactionID, vendorID, signature string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionSettler
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
