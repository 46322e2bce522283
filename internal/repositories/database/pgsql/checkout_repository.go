package pgsql

import (
	"context"
	"errors"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
	"github.com/FxPeer/fx_marketplace_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCheckoutRepository struct {
	BaseRepository
}

// newPgxCheckoutRepository creates a new repository for the payment method and
// address read-models consulted at checkout.
func newPgxCheckoutRepository(pool *pgxpool.Pool) portsrepo.CheckoutRepositoryFacade {
	return &PgxCheckoutRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCheckoutRepository implements portsrepo.CheckoutRepositoryFacade
var _ portsrepo.CheckoutRepositoryFacade = (*PgxCheckoutRepository)(nil)

// FindPaymentMethodByID retrieves a payment method by its ID.
func (r *PgxCheckoutRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	query := `
		SELECT payment_method_id, user_id, type,
		       card_number, card_expiry, card_holder_name,
		       bank_name, account_number, routing_number, account_holder_name,
		       is_default, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_methods
		WHERE payment_method_id = $1;
	`
	var m models.PaymentMethod
	err := r.Pool.QueryRow(ctx, query, paymentMethodID).Scan(
		&m.PaymentMethodID,
		&m.UserID,
		&m.Type,
		&m.CardNumber,
		&m.CardExpiry,
		&m.CardHolderName,
		&m.BankName,
		&m.AccountNumber,
		&m.RoutingNumber,
		&m.AccountHolderName,
		&m.IsDefault,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment method by ID "+paymentMethodID, err)
	}

	pm := mapping.ToDomainPaymentMethod(m)
	return &pm, nil
}

// FindAddressByID retrieves an address by its ID.
func (r *PgxCheckoutRepository) FindAddressByID(ctx context.Context, addressID string) (*domain.Address, error) {
	query := `
		SELECT address_id, user_id, street, city, state, postal_code, country,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM addresses
		WHERE address_id = $1;
	`
	var m models.Address
	err := r.Pool.QueryRow(ctx, query, addressID).Scan(
		&m.AddressID,
		&m.UserID,
		&m.Street,
		&m.City,
		&m.State,
		&m.PostalCode,
		&m.Country,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find address by ID "+addressID, err)
	}

	addr := mapping.ToDomainAddress(m)
	return &addr, nil
}
