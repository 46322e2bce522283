package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portsrepo "github.com/FxPeer/fx_marketplace_app/internal/core/ports/repositories"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

type vendorService struct {
	vendorRepo portsrepo.VendorRepositoryWithTx
	userRepo   portsrepo.UserRepositoryFacade
	rates      portssvc.RateSource
	clk        clock.Clock
}

// NewVendorService creates the vendor matching, self-service and provisioning service.
func NewVendorService(vendorRepo portsrepo.VendorRepositoryWithTx, userRepo portsrepo.UserRepositoryFacade, rates portssvc.RateSource, clk clock.Clock) portssvc.VendorSvcFacade {
	return &vendorService{
		vendorRepo: vendorRepo,
		userRepo:   userRepo,
		rates:      rates,
		clk:        clk,
	}
}

var _ portssvc.VendorSvcFacade = (*vendorService)(nil)

// MatchVendors finds the vendors able to cover an exchange of amount
// fromCurrency into toCurrency and prices each one with its own markup.
// Results come back sorted by ascending final rate.
func (s *vendorService) MatchVendors(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) ([]domain.VendorOffer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fromCurrency = strings.ToUpper(fromCurrency)
	toCurrency = strings.ToUpper(toCurrency)
	if len(fromCurrency) != 3 || len(toCurrency) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if fromCurrency == toCurrency {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	baseRate, err := s.rates.GetPairRate(ctx, fromCurrency, toCurrency)
	if err != nil {
		logger.Error("Failed to fetch base rate", slog.String("error", err.Error()), slog.String("from", fromCurrency), slog.String("to", toCurrency))
		return nil, err
	}

	// Eligibility is measured against the base rate: the vendor must hold at
	// least amount×baseRate of the target currency, regardless of markup.
	required := amount.Mul(baseRate)
	candidates, err := s.vendorRepo.FindEligibleVendors(ctx, toCurrency, required)
	if err != nil {
		logger.Error("Failed to find eligible vendors", slog.String("error", err.Error()), slog.String("to", toCurrency))
		return nil, fmt.Errorf("failed to find eligible vendors: %w", err)
	}

	offers := make([]domain.VendorOffer, 0, len(candidates))
	for _, vendor := range candidates {
		item, ok := vendor.InventoryFor(toCurrency)
		if !ok {
			continue
		}
		if item.Amount.LessThan(required) {
			continue
		}
		finalRate := baseRate.Mul(one.Add(item.Markup))
		offers = append(offers, domain.VendorOffer{
			VendorID:            vendor.VendorID,
			BusinessName:        vendor.BusinessName,
			BaseRate:            baseRate,
			FinalRate:           finalRate,
			ToCurrencyAvailable: item.Amount,
			Markup:              domain.OfferMarkup{To: item.Markup},
		})
	}

	sort.Slice(offers, func(i, j int) bool {
		if !offers[i].FinalRate.Equal(offers[j].FinalRate) {
			return offers[i].FinalRate.LessThan(offers[j].FinalRate)
		}
		return offers[i].VendorID < offers[j].VendorID
	})

	logger.Debug("Vendor match completed", slog.String("from", fromCurrency), slog.String("to", toCurrency), slog.Int("offers", len(offers)))
	return offers, nil
}

// GetVendorProfile retrieves a vendor's profile with inventory.
func (s *vendorService) GetVendorProfile(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	profile, err := s.vendorRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor profile: %w", err)
	}
	return profile, nil
}

// UpdateVendorProfile creates or replaces the calling vendor's profile.
// Profile completeness is derived, never client-supplied.
func (s *vendorService) UpdateVendorProfile(ctx context.Context, vendorID string, profile domain.VendorProfile) (*domain.VendorProfile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(profile.BusinessName) == "" {
		return nil, fmt.Errorf("%w: business name is required", apperrors.ErrValidation)
	}
	if err := validateInventory(profile.Inventory); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor user: %w", err)
	}
	if user.Role != domain.RoleVendor {
		return nil, fmt.Errorf("%w: user %s is not a vendor", apperrors.ErrForbidden, vendorID)
	}

	now := s.clk.Now()
	profile.VendorID = vendorID
	profile.IsProfileComplete = len(profile.Inventory) > 0
	profile.CreatedAt = now
	profile.CreatedBy = vendorID
	profile.LastUpdatedAt = now
	profile.LastUpdatedBy = vendorID

	if err := s.vendorRepo.UpsertVendorProfile(ctx, profile); err != nil {
		logger.Error("Failed to upsert vendor profile", slog.String("error", err.Error()), slog.String("vendor_id", vendorID))
		return nil, fmt.Errorf("failed to save vendor profile: %w", err)
	}

	logger.Info("Vendor profile updated", slog.String("vendor_id", vendorID), slog.Bool("complete", profile.IsProfileComplete))
	return s.vendorRepo.FindVendorByID(ctx, vendorID)
}

// UpdateInventory replaces the calling vendor's inventory.
func (s *vendorService) UpdateInventory(ctx context.Context, vendorID string, items []domain.InventoryItem) (*domain.VendorProfile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateInventory(items); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	if err := s.vendorRepo.ReplaceInventory(ctx, vendorID, items, vendorID, now); err != nil {
		logger.Error("Failed to replace vendor inventory", slog.String("error", err.Error()), slog.String("vendor_id", vendorID))
		return nil, fmt.Errorf("failed to replace inventory: %w", err)
	}

	logger.Info("Vendor inventory replaced", slog.String("vendor_id", vendorID), slog.Int("positions", len(items)))
	return s.vendorRepo.FindVendorByID(ctx, vendorID)
}

// ProvisionVendor creates a vendor user account. Only administrators may call it.
func (s *vendorService) ProvisionVendor(ctx context.Context, adminID string, user domain.User) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	admin, err := s.userRepo.FindUserByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}
	if admin.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: user %s may not provision vendors", apperrors.ErrForbidden, adminID)
	}

	if strings.TrimSpace(user.Email) == "" || strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: vendor email and name are required", apperrors.ErrValidation)
	}

	now := s.clk.Now()
	user.UserID = uuid.NewString()
	user.Role = domain.RoleVendor
	user.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     adminID,
		LastUpdatedAt: now,
		LastUpdatedBy: adminID,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: vendor with email %s already exists", apperrors.ErrDuplicate, user.Email)
		}
		logger.Error("Failed to provision vendor", slog.String("error", err.Error()), slog.String("admin_id", adminID))
		return nil, fmt.Errorf("failed to provision vendor: %w", err)
	}

	logger.Info("Vendor provisioned", slog.String("vendor_id", user.UserID), slog.String("admin_id", adminID))
	return &user, nil
}

// validateInventory checks every position and rejects duplicate currencies.
func validateInventory(items []domain.InventoryItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if _, dup := seen[item.Currency]; dup {
			return fmt.Errorf("%w: duplicate inventory currency %s", apperrors.ErrValidation, item.Currency)
		}
		seen[item.Currency] = struct{}{}
	}
	return nil
}
