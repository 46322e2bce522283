package pgsql

import (
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	vendorRepo := newPgxVendorRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	checkoutRepo := newPgxCheckoutRepository(dbPool)
	settingsRepo := newPgxSettingsRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		VendorRepo:      vendorRepo,
		TransactionRepo: transactionRepo,
		CheckoutRepo:    checkoutRepo,
		SettingsRepo:    settingsRepo,
		UserRepo:        userRepo,
	}
}
