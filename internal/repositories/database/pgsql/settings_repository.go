package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// grayPeriodSettingKey is the singleton row key in app_settings.
const grayPeriodSettingKey = "gray_period_hours"

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates a new repository for marketplace-wide settings.
func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSettingsRepository implements portsrepo.SettingsRepositoryFacade
var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

// GetGrayPeriod retrieves the gray period setting. A missing row is not an
// error; it maps to the unset sentinel.
func (r *PgxSettingsRepository) GetGrayPeriod(ctx context.Context) (domain.GrayPeriod, error) {
	query := `
		SELECT value_numeric
		FROM app_settings
		WHERE setting_key = $1;
	`
	var hours float64
	err := r.Pool.QueryRow(ctx, query, grayPeriodSettingKey).Scan(&hours)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.GrayPeriod{Hours: domain.GrayPeriodUnset}, nil
		}
		return domain.GrayPeriod{}, apperrors.NewAppError(500, "failed to read gray period setting", err)
	}
	return domain.GrayPeriod{Hours: hours}, nil
}

// UpsertGrayPeriod stores the gray period, creating the singleton row if needed.
func (r *PgxSettingsRepository) UpsertGrayPeriod(ctx context.Context, hours float64, updatedBy string, now time.Time) error {
	query := `
		INSERT INTO app_settings (setting_key, value_numeric, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $3, $4)
		ON CONFLICT (setting_key) DO UPDATE SET
			value_numeric = EXCLUDED.value_numeric,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	if _, err := r.Pool.Exec(ctx, query, grayPeriodSettingKey, hours, now, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to upsert gray period setting", err)
	}
	return nil
}
