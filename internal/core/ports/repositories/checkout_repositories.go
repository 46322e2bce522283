package repositories

import (
	"context"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
)

// PaymentMethodReader defines read access to stored payment methods. The core
// only validates ownership; management of payment methods is external.
type PaymentMethodReader interface {
	// FindPaymentMethodByID retrieves a payment method by its ID.
	FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error)
}

// AddressReader defines read access to stored delivery addresses.
type AddressReader interface {
	// FindAddressByID retrieves an address by its ID.
	FindAddressByID(ctx context.Context, addressID string) (*domain.Address, error)
}

// CheckoutRepositoryFacade combines the read models consulted at checkout.
type CheckoutRepositoryFacade interface {
	PaymentMethodReader
	AddressReader
}
