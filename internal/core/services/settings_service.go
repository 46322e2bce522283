package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
)

type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
	userRepo     portsrepo.UserReader
	clk          clock.Clock
}

// NewSettingsService creates the marketplace settings service.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, userRepo portsrepo.UserReader, clk clock.Clock) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
		clk:          clk,
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetGrayPeriod retrieves the configured gray period, which may be unset.
func (s *settingsService) GetGrayPeriod(ctx context.Context) (domain.GrayPeriod, error) {
	gp, err := s.settingsRepo.GetGrayPeriod(ctx)
	if err != nil {
		return domain.GrayPeriod{}, fmt.Errorf("failed to get gray period: %w", err)
	}
	return gp, nil
}

// SetGrayPeriod stores the gray period. Only administrators may call it.
// Passing the unset sentinel reverts to the built-in default window.
func (s *settingsService) SetGrayPeriod(ctx context.Context, adminID string, hours float64) (domain.GrayPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	admin, err := s.userRepo.FindUserByID(ctx, adminID)
	if err != nil {
		return domain.GrayPeriod{}, fmt.Errorf("failed to load admin user: %w", err)
	}
	if admin.Role != domain.RoleAdmin {
		return domain.GrayPeriod{}, fmt.Errorf("%w: user %s may not change settings", apperrors.ErrForbidden, adminID)
	}

	if hours < 0 && hours != domain.GrayPeriodUnset {
		return domain.GrayPeriod{}, fmt.Errorf("%w: gray period hours must be non-negative", apperrors.ErrValidation)
	}

	if err := s.settingsRepo.UpsertGrayPeriod(ctx, hours, adminID, s.clk.Now()); err != nil {
		logger.Error("Failed to store gray period", slog.String("error", err.Error()), slog.String("admin_id", adminID))
		return domain.GrayPeriod{}, fmt.Errorf("failed to set gray period: %w", err)
	}

	logger.Info("Gray period updated", slog.Float64("hours", hours), slog.String("admin_id", adminID))
	return domain.GrayPeriod{Hours: hours}, nil
}
