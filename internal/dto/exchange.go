package dto

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MatchVendorsRequest defines the query parameters for a vendor match.
type MatchVendorsRequest struct {
	FromCurrency string          `form:"from" binding:"required,len=3"`
	ToCurrency   string          `form:"to" binding:"required,len=3"`
	Amount       decimal.Decimal `form:"amount" binding:"required"`
}

// VendorOfferResponse defines one ranked vendor offer.
type VendorOfferResponse struct {
	VendorID            string          `json:"vendorId"`
	BusinessName        string          `json:"businessName"`
	BaseRate            decimal.Decimal `json:"baseRate"`
	FinalRate           decimal.Decimal `json:"finalRate"`
	ToCurrencyAvailable decimal.Decimal `json:"toCurrencyAvailable"`
	Markup              MarkupResponse  `json:"markup"`
}

// MarkupResponse breaks out the markup components applied to an offer.
type MarkupResponse struct {
	To decimal.Decimal `json:"to"`
}

// ToVendorOfferResponse converts a domain.VendorOffer to its DTO.
func ToVendorOfferResponse(offer domain.VendorOffer) VendorOfferResponse {
	return VendorOfferResponse{
		VendorID:            offer.VendorID,
		BusinessName:        offer.BusinessName,
		BaseRate:            offer.BaseRate,
		FinalRate:           offer.FinalRate,
		ToCurrencyAvailable: offer.ToCurrencyAvailable,
		Markup:              MarkupResponse{To: offer.Markup.To},
	}
}

// ToListVendorOfferResponse converts a slice of offers to DTOs.
func ToListVendorOfferResponse(offers []domain.VendorOffer) []VendorOfferResponse {
	res := make([]VendorOfferResponse, len(offers))
	for i, offer := range offers {
		res[i] = ToVendorOfferResponse(offer)
	}
	return res
}

// SupportedCurrencyResponse defines one currency quoted by the rate provider.
type SupportedCurrencyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ToListSupportedCurrencyResponse converts provider currencies to DTOs.
func ToListSupportedCurrencyResponse(currencies []domain.SupportedCurrency) []SupportedCurrencyResponse {
	res := make([]SupportedCurrencyResponse, len(currencies))
	for i, cur := range currencies {
		res[i] = SupportedCurrencyResponse{Code: cur.Code, Name: cur.Name}
	}
	return res
}
