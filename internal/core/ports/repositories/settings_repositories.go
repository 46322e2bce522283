package repositories

import (
	"context"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
)

// SettingsReader defines read access to marketplace-wide settings.
type SettingsReader interface {
	// GetGrayPeriod retrieves the configured gray period. When no value has
	// ever been set it returns the unset sentinel, not an error.
	GetGrayPeriod(ctx context.Context) (domain.GrayPeriod, error)
}

// SettingsWriter defines write access to marketplace-wide settings.
type SettingsWriter interface {
	// UpsertGrayPeriod stores the gray period, creating the singleton row if needed.
	UpsertGrayPeriod(ctx context.Context, hours float64, updatedBy string, now time.Time) error
}

// SettingsRepositoryFacade combines all settings repository interfaces
type SettingsRepositoryFacade interface {
	SettingsReader
	SettingsWriter
}
