package services

import (
	"context"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
)

// SettingsSvcFacade defines admin management of marketplace-wide settings.
type SettingsSvcFacade interface {
	// GetGrayPeriod retrieves the configured gray period, which may be unset.
	GetGrayPeriod(ctx context.Context) (domain.GrayPeriod, error)

	// SetGrayPeriod stores the gray period (admin only).
	SetGrayPeriod(ctx context.Context, adminID string, hours float64) (domain.GrayPeriod, error)
}
