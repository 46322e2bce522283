package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
	"github.com/FxPeer/fx_marketplace_app/internal/utils/mapping"
	"github.com/FxPeer/fx_marketplace_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, user_id, vendor_id, from_currency, to_currency, amount, converted_amount, exchange_rate,
	       payment_method_id, delivery_address_id, delivery_method, delivery_date, status, conversion_fee,
	       fulfillment_signature, fulfilled_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for exchange transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.ExchangeTransaction, error) {
	var m models.ExchangeTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.VendorID,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.Amount,
		&m.ConvertedAmount,
		&m.ExchangeRate,
		&m.PaymentMethodID,
		&m.DeliveryAddressID,
		&m.DeliveryMethod,
		&m.DeliveryDate,
		&m.Status,
		&m.ConversionFee,
		&m.FulfillmentSignature,
		&m.FulfilledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTransactionByID retrieves a transaction by ID together with its
// conversion history, oldest entry first.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.ExchangeTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	conversions, err := r.findConversionsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	domainTxn := mapping.ToDomainExchangeTransaction(m, conversions)
	return &domainTxn, nil
}

// findConversionsByTransactionID retrieves the conversion rows for a
// transaction ordered by conversion time.
func (r *PgxTransactionRepository) findConversionsByTransactionID(ctx context.Context, transactionID string) ([]models.Conversion, error) {
	query := `
		SELECT conversion_id, transaction_id, from_currency, to_currency, amount, converted_amount, conversion_fee, converted_at
		FROM transaction_conversions
		WHERE transaction_id = $1
		ORDER BY converted_at, conversion_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query conversions for transaction "+transactionID, err)
	}
	defer rows.Close()

	conversions := []models.Conversion{}
	for rows.Next() {
		var c models.Conversion
		if err := rows.Scan(
			&c.ConversionID,
			&c.TransactionID,
			&c.FromCurrency,
			&c.ToCurrency,
			&c.Amount,
			&c.ConvertedAmount,
			&c.ConversionFee,
			&c.ConvertedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan conversion row for transaction "+transactionID, err)
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating conversion rows for transaction "+transactionID, err)
	}
	return conversions, nil
}

// ListTransactionsByUser retrieves a paginated list of a customer's
// transactions using token-based pagination, newest first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error) {
	return r.listTransactions(ctx, "user_id", userID, limit, nextToken)
}

// ListTransactionsByVendor retrieves a paginated list of the transactions
// assigned to a vendor, newest first.
func (r *PgxTransactionRepository) ListTransactionsByVendor(ctx context.Context, vendorID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error) {
	return r.listTransactions(ctx, "vendor_id", vendorID, limit, nextToken)
}

// listTransactions implements keyset pagination over (created_at, transaction_id)
// for a fixed owner column.
func (r *PgxTransactionRepository) listTransactions(ctx context.Context, ownerColumn, ownerID string, limit int, nextToken *string) ([]domain.ExchangeTransaction, *string, error) {
	// Default limit handling
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + ownerColumn + ` = $1
	`
	// Ordering is crucial and must be stable: created_at DESC with
	// transaction_id DESC as a tie-breaker.
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{ownerID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres
		cursorClause := `AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for "+ownerColumn+" "+ownerID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.ExchangeTransaction, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for "+ownerColumn+" "+ownerID, scanErr)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for "+ownerColumn+" "+ownerID, err)
	}

	// Determine the next token
	var nextTokenVal *string
	results := modelTxns
	if len(modelTxns) > limit {
		lastTxn := modelTxns[limit-1] // The *actual* last item of the *current* page
		newToken := pagination.EncodeCursor(lastTxn.CreatedAt, lastTxn.TransactionID)
		nextTokenVal = &newToken
		// Trim the extra item fetched
		results = modelTxns[:limit]
	}

	// Conversion history is omitted from list views; the detail endpoint
	// loads it.
	domainTxns := make([]domain.ExchangeTransaction, len(results))
	for i, m := range results {
		domainTxns[i] = mapping.ToDomainExchangeTransaction(m, nil)
	}
	return domainTxns, nextTokenVal, nil
}

// SaveTransaction persists a newly created transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.ExchangeTransaction) error {
	m := mapping.ToModelExchangeTransaction(txn)
	query := `
		INSERT INTO transactions (
			transaction_id, user_id, vendor_id, from_currency, to_currency, amount, converted_amount, exchange_rate,
			payment_method_id, delivery_address_id, delivery_method, delivery_date, status, conversion_fee,
			fulfillment_signature, fulfilled_at, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.VendorID,
		m.FromCurrency,
		m.ToCurrency,
		m.Amount,
		m.ConvertedAmount,
		m.ExchangeRate,
		m.PaymentMethodID,
		m.DeliveryAddressID,
		m.DeliveryMethod,
		m.DeliveryDate,
		m.Status,
		m.ConversionFee,
		m.FulfillmentSignature,
		m.FulfilledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// MarkCancelled flips a pending transaction owned by the user to cancelled.
// The status predicate makes the update a no-op when a concurrent settlement
// or cancellation won the race.
func (r *PgxTransactionRepository) MarkCancelled(ctx context.Context, transactionID, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE transaction_id = $1 AND user_id = $2 AND status = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		transactionID,
		userID,
		string(domain.StatusCancelled),
		now,
		userID,
		string(domain.StatusPending),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ApplyConversion overwrites a pending transaction with its new terms and
// appends the pre-conversion snapshot to the history, within a DB transaction.
func (r *PgxTransactionRepository) ApplyConversion(ctx context.Context, txn domain.ExchangeTransaction, snapshot domain.Conversion) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelExchangeTransaction(txn)
	updateQuery := `
		UPDATE transactions
		SET to_currency = $2,
		    amount = $3,
		    converted_amount = $4,
		    exchange_rate = $5,
		    conversion_fee = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE transaction_id = $1 AND status = $9;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.TransactionID,
		m.ToCurrency,
		m.Amount,
		m.ConvertedAmount,
		m.ExchangeRate,
		m.ConversionFee,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(domain.StatusPending),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply conversion to transaction "+m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	historyQuery := `
		INSERT INTO transaction_conversions (conversion_id, transaction_id, from_currency, to_currency, amount, converted_amount, conversion_fee, converted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, historyQuery,
		uuid.NewString(),
		m.TransactionID,
		snapshot.FromCurrency,
		snapshot.ToCurrency,
		snapshot.Amount,
		snapshot.ConvertedAmount,
		snapshot.ConversionFee,
		snapshot.ConvertedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record conversion history for transaction "+m.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkFulfilledInTx flips a pending transaction belonging to the vendor to
// completed, stamping the signature and fulfillment time. Zero rows affected
// means the transaction is missing, not the vendor's, or no longer pending.
func (r *PgxTransactionRepository) MarkFulfilledInTx(ctx context.Context, tx pgx.Tx, transactionID, vendorID, signature string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3,
		    fulfillment_signature = $4,
		    fulfilled_at = $5,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE transaction_id = $1 AND vendor_id = $2 AND status = $7;
	`
	cmdTag, err := tx.Exec(ctx, query,
		transactionID,
		vendorID,
		string(domain.StatusCompleted),
		signature,
		now,
		vendorID,
		string(domain.StatusPending),
	)
	if err != nil {
		if isSerializationFailure(err) {
			return apperrors.ErrConflict
		}
		return apperrors.NewAppError(500, "failed to mark transaction "+transactionID+" fulfilled", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyFulfilled
	}
	return nil
}
