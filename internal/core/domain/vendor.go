package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Markup bounds: vendors may discount up to 50% or mark up up to 50%.
var (
	MarkupMin = decimal.NewFromFloat(-0.5)
	MarkupMax = decimal.NewFromFloat(0.5)
)

// InventoryItem is one currency position held by a vendor. Amount is the
// available stock in that currency; Markup adjusts the base exchange rate
// (0 means no markup, 0.05 means 5% on top, negative is a discount).
type InventoryItem struct {
	Currency string          `json:"currency"` // 3-letter code, unique per vendor
	Amount   decimal.Decimal `json:"amount"`
	Markup   decimal.Decimal `json:"markup"`
}

// Validate checks the invariants of a single inventory position.
func (i InventoryItem) Validate() error {
	if len(i.Currency) != 3 {
		return fmt.Errorf("currency code must be 3 letters, got %q", i.Currency)
	}
	if i.Amount.IsNegative() {
		return fmt.Errorf("inventory amount for %s must not be negative", i.Currency)
	}
	if i.Markup.LessThan(MarkupMin) || i.Markup.GreaterThan(MarkupMax) {
		return fmt.Errorf("markup for %s must be between %s and %s", i.Currency, MarkupMin, MarkupMax)
	}
	return nil
}

// VendorProfile describes a vendor's storefront and currency inventory.
// Inventory is mutated only through settlement or vendor self-service.
type VendorProfile struct {
	VendorID          string          `json:"vendorID"` // Owning UserID, unique
	BusinessName      string          `json:"businessName"`
	Description       string          `json:"description"`
	Inventory         []InventoryItem `json:"inventory"`
	IsProfileComplete bool            `json:"isProfileComplete"`
	AuditFields
}

// InventoryFor returns the inventory entry for the given currency code, if present.
func (v VendorProfile) InventoryFor(currency string) (InventoryItem, bool) {
	for _, item := range v.Inventory {
		if item.Currency == currency {
			return item, true
		}
	}
	return InventoryItem{}, false
}
