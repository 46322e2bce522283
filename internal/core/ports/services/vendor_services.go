package services

import (
	"context"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VendorSvcFacade defines vendor matching, self-service profile management
// and admin provisioning.
type VendorSvcFacade interface {
	// MatchVendors returns the vendors able to serve an exchange of amount
	// fromCurrency into toCurrency, as priced offers sorted by ascending final
	// rate. An empty slice means no vendor qualifies.
	MatchVendors(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) ([]domain.VendorOffer, error)

	// GetVendorProfile retrieves a vendor's profile with inventory.
	GetVendorProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error)

	// UpdateVendorProfile creates or replaces the calling vendor's profile.
	UpdateVendorProfile(ctx context.Context, vendorID string, profile domain.VendorProfile) (*domain.VendorProfile, error)

	// UpdateInventory replaces the calling vendor's inventory after validating
	// every item.
	UpdateInventory(ctx context.Context, vendorID string, items []domain.InventoryItem) (*domain.VendorProfile, error)

	// ProvisionVendor creates a vendor user account (admin only).
	ProvisionVendor(ctx context.Context, adminID string, user domain.User) (*domain.User, error)
}
