package repositories

import (
	"context"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// VendorReader defines read operations for vendor profiles and inventory.
type VendorReader interface {
	// FindVendorByID retrieves a vendor profile with its full inventory.
	FindVendorByID(ctx context.Context, vendorID string) (*domain.VendorProfile, error)

	// FindEligibleVendors retrieves vendors with a complete profile holding at
	// least minAmount of toCurrency. Inventory is fully populated on each result.
	FindEligibleVendors(ctx context.Context, toCurrency string, minAmount decimal.Decimal) ([]domain.VendorProfile, error)
}

// VendorWriter defines write operations for vendor self-service and
// admin provisioning.
type VendorWriter interface {
	// UpsertVendorProfile creates or replaces a vendor profile together with
	// its inventory rows.
	UpsertVendorProfile(ctx context.Context, profile domain.VendorProfile) error

	// ReplaceInventory atomically swaps a vendor's inventory rows.
	ReplaceInventory(ctx context.Context, vendorID string, items []domain.InventoryItem, updatedBy string, now time.Time) error
}

// VendorSettler defines the inventory mutations used by settlement. All
// methods must be called within a database transaction.
type VendorSettler interface {
	// FindInventoryForUpdate locks and returns the vendor's inventory rows for
	// the given currencies, keyed by currency code. Missing currencies are
	// simply absent from the map.
	FindInventoryForUpdate(ctx context.Context, tx pgx.Tx, vendorID string, currencies []string) (map[string]domain.InventoryItem, error)

	// AdjustInventoryInTx applies a signed delta to one inventory row. The
	// update is conditional: it fails with ErrInsufficientInventory when the
	// resulting amount would be negative.
	AdjustInventoryInTx(ctx context.Context, tx pgx.Tx, vendorID, currency string, delta decimal.Decimal, updatedBy string, now time.Time) error
}

// VendorRepositoryFacade combines all vendor-related repository interfaces
type VendorRepositoryFacade interface {
	VendorReader
	VendorWriter
	VendorSettler
}

// VendorRepositoryWithTx extends VendorRepositoryFacade with transaction capabilities
type VendorRepositoryWithTx interface {
	VendorRepositoryFacade
	TransactionManager
}
