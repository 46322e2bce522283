package domain

import "github.com/shopspring/decimal"

// OfferMarkup breaks out the markup components applied to an offer's rate.
// Only the destination-currency markup participates today.
type OfferMarkup struct {
	To decimal.Decimal `json:"to"`
}

// VendorOffer is one ranked result of a vendor match: a vendor able to cover
// the requested exchange, with the effective rate the customer would pay.
type VendorOffer struct {
	VendorID            string          `json:"vendorId"`
	BusinessName        string          `json:"businessName"`
	BaseRate            decimal.Decimal `json:"baseRate"`
	FinalRate           decimal.Decimal `json:"finalRate"` // BaseRate * (1 + Markup.To)
	ToCurrencyAvailable decimal.Decimal `json:"toCurrencyAvailable"`
	Markup              OfferMarkup     `json:"markup"`
}
