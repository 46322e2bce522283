package models

import "github.com/shopspring/decimal"

// VendorProfile mirrors the vendor_profiles table.
type VendorProfile struct {
	VendorID          string `json:"vendorID"`
	BusinessName      string `json:"businessName"`
	Description       string `json:"description"`
	IsProfileComplete bool   `json:"isProfileComplete"`
	AuditFields
}

// InventoryItem mirrors one row of the vendor_inventory table, unique per
// (vendor_id, currency_code).
type InventoryItem struct {
	VendorID     string          `json:"vendorID"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
	Markup       decimal.Decimal `json:"markup"`
}
