package services

import (
	"context"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource defines the external exchange-rate provider consulted by the
// vendor matcher. Implementations translate provider failures into
// apperrors.ErrRateUnavailable.
type RateSource interface {
	// GetPairRate retrieves the current base conversion rate from one currency
	// to another.
	GetPairRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)

	// ListSupportedCurrencies retrieves the currency codes the provider quotes.
	ListSupportedCurrencies(ctx context.Context) ([]domain.SupportedCurrency, error)
}
