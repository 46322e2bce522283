package services

import (
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, rates portssvc.RateSource, clk clock.Clock) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Rates = rates
	container.Vendor = NewVendorService(repos.VendorRepo, repos.UserRepo, rates, clk)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.VendorRepo, repos.CheckoutRepo, repos.SettingsRepo, rates, clk)
	container.Fulfillment = NewFulfillmentService(repos.TransactionRepo, repos.VendorRepo, clk)
	container.Settings = NewSettingsService(repos.SettingsRepo, repos.UserRepo, clk)

	return container
}
