package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/clock"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock VendorRepository (implements portsrepo.VendorRepositoryWithTx) ---
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.VendorProfile, error) {
	args := m.Called(ctx, vendorID)
	var profile *domain.VendorProfile
	if args.Get(0) != nil {
		profile = args.Get(0).(*domain.VendorProfile)
	}
	return profile, args.Error(1)
}

func (m *MockVendorRepository) FindEligibleVendors(ctx context.Context, toCurrency string, minAmount decimal.Decimal) ([]domain.VendorProfile, error) {
	args := m.Called(ctx, toCurrency, minAmount)
	var profiles []domain.VendorProfile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]domain.VendorProfile)
	}
	return profiles, args.Error(1)
}

func (m *MockVendorRepository) UpsertVendorProfile(ctx context.Context, profile domain.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockVendorRepository) ReplaceInventory(ctx context.Context, vendorID string, items []domain.InventoryItem, updatedBy string, now time.Time) error {
	args := m.Called(ctx, vendorID, items, updatedBy, now)
	return args.Error(0)
}

func (m *MockVendorRepository) FindInventoryForUpdate(ctx context.Context, tx pgx.Tx, vendorID string, currencies []string) (map[string]domain.InventoryItem, error) {
	args := m.Called(ctx, tx, vendorID, currencies)
	var locked map[string]domain.InventoryItem
	if args.Get(0) != nil {
		locked = args.Get(0).(map[string]domain.InventoryItem)
	}
	return locked, args.Error(1)
}

func (m *MockVendorRepository) AdjustInventoryInTx(ctx context.Context, tx pgx.Tx, vendorID, currency string, delta decimal.Decimal, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, vendorID, currency, delta, updatedBy, now)
	return args.Error(0)
}

func (m *MockVendorRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockVendorRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockVendorRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserRepository (implements portsrepo.UserRepositoryFacade) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock RateSource (implements portssvc.RateSource) ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) GetPairRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateSource) ListSupportedCurrencies(ctx context.Context) ([]domain.SupportedCurrency, error) {
	args := m.Called(ctx)
	var currencies []domain.SupportedCurrency
	if args.Get(0) != nil {
		currencies = args.Get(0).([]domain.SupportedCurrency)
	}
	return currencies, args.Error(1)
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func vendorWithInventory(vendorID, businessName string, items ...domain.InventoryItem) domain.VendorProfile {
	return domain.VendorProfile{
		VendorID:          vendorID,
		BusinessName:      businessName,
		Inventory:         items,
		IsProfileComplete: true,
	}
}

func TestMatchVendors_RanksByFinalRateAscending(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	baseRate := decimal.NewFromFloat(0.9)
	rates.On("GetPairRate", mock.Anything, "USD", "EUR").Return(baseRate, nil)

	// cheap has a 2% discount, pricey a 10% markup
	cheap := vendorWithInventory("v-cheap", "Cheap FX", domain.InventoryItem{
		Currency: "EUR", Amount: decimal.NewFromInt(10000), Markup: decimal.NewFromFloat(-0.02),
	})
	pricey := vendorWithInventory("v-pricey", "Pricey FX", domain.InventoryItem{
		Currency: "EUR", Amount: decimal.NewFromInt(10000), Markup: decimal.NewFromFloat(0.10),
	})
	vendorRepo.On("FindEligibleVendors", mock.Anything, "EUR", mock.Anything).
		Return([]domain.VendorProfile{pricey, cheap}, nil)

	offers, err := svc.MatchVendors(context.Background(), "usd", "eur", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, "v-cheap", offers[0].VendorID)
	assert.Equal(t, "v-pricey", offers[1].VendorID)
	assert.True(t, offers[0].FinalRate.LessThan(offers[1].FinalRate))
	// finalRate = base * (1 + markup)
	assert.True(t, offers[0].FinalRate.Equal(baseRate.Mul(decimal.NewFromFloat(0.98))))
	assert.True(t, offers[0].BaseRate.Equal(baseRate))
	assert.True(t, offers[0].Markup.To.Equal(decimal.NewFromFloat(-0.02)))
}

func TestMatchVendors_DropsVendorsThatCannotCover(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	rates.On("GetPairRate", mock.Anything, "USD", "EUR").Return(decimal.NewFromFloat(0.9), nil)

	// Needs 100 * 0.9 = 90 EUR but only holds 50.
	thin := vendorWithInventory("v-thin", "Thin FX", domain.InventoryItem{
		Currency: "EUR", Amount: decimal.NewFromInt(50), Markup: decimal.NewFromFloat(0.10),
	})
	vendorRepo.On("FindEligibleVendors", mock.Anything, "EUR", mock.Anything).
		Return([]domain.VendorProfile{thin}, nil)

	offers, err := svc.MatchVendors(context.Background(), "USD", "EUR", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestMatchVendors_EligibilityUsesBaseRate(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	baseRate := decimal.NewFromFloat(0.92)
	rates.On("GetPairRate", mock.Anything, "USD", "EUR").Return(baseRate, nil)

	// 100 USD at baseRate 0.92 requires 92 EUR. Markup never changes the
	// threshold: 93 with a 5% markup is still eligible, 90 with a 5%
	// discount is not.
	marked := vendorWithInventory("v-marked", "Marked Up FX", domain.InventoryItem{
		Currency: "EUR", Amount: decimal.NewFromInt(93), Markup: decimal.NewFromFloat(0.05),
	})
	discounted := vendorWithInventory("v-discount", "Discount FX", domain.InventoryItem{
		Currency: "EUR", Amount: decimal.NewFromInt(90), Markup: decimal.NewFromFloat(-0.05),
	})
	vendorRepo.On("FindEligibleVendors", mock.Anything, "EUR", mock.MatchedBy(func(min decimal.Decimal) bool {
		return min.Equal(decimal.NewFromInt(92))
	})).Return([]domain.VendorProfile{marked, discounted}, nil)

	offers, err := svc.MatchVendors(context.Background(), "USD", "EUR", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "v-marked", offers[0].VendorID)
	assert.True(t, offers[0].FinalRate.Equal(baseRate.Mul(decimal.NewFromFloat(1.05))))
}

func TestMatchVendors_RateFailurePropagates(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	rates.On("GetPairRate", mock.Anything, "USD", "EUR").
		Return(decimal.Decimal{}, apperrors.ErrRateUnavailable)

	_, err := svc.MatchVendors(context.Background(), "USD", "EUR", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
	vendorRepo.AssertNotCalled(t, "FindEligibleVendors", mock.Anything, mock.Anything, mock.Anything)
}

func TestMatchVendors_Validation(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	testCases := []struct {
		name   string
		from   string
		to     string
		amount decimal.Decimal
	}{
		{"bad from code", "US", "EUR", decimal.NewFromInt(100)},
		{"bad to code", "USD", "EURO", decimal.NewFromInt(100)},
		{"same pair", "USD", "USD", decimal.NewFromInt(100)},
		{"zero amount", "USD", "EUR", decimal.Zero},
		{"negative amount", "USD", "EUR", decimal.NewFromInt(-5)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.MatchVendors(context.Background(), tc.from, tc.to, tc.amount)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestUpdateVendorProfile_DerivesCompleteness(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	userRepo.On("FindUserByID", mock.Anything, "v1").
		Return(&domain.User{UserID: "v1", Role: domain.RoleVendor}, nil)

	var saved domain.VendorProfile
	vendorRepo.On("UpsertVendorProfile", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.VendorProfile) }).
		Return(nil)
	vendorRepo.On("FindVendorByID", mock.Anything, "v1").
		Return(&domain.VendorProfile{VendorID: "v1"}, nil)

	profile := domain.VendorProfile{
		BusinessName: "FX Corner",
		Inventory: []domain.InventoryItem{
			{Currency: "EUR", Amount: decimal.NewFromInt(500), Markup: decimal.NewFromFloat(0.01)},
		},
		// Client-supplied value must be ignored.
		IsProfileComplete: false,
	}
	_, err := svc.UpdateVendorProfile(context.Background(), "v1", profile)
	require.NoError(t, err)

	assert.Equal(t, "v1", saved.VendorID)
	assert.True(t, saved.IsProfileComplete)
	assert.Equal(t, testNow, saved.LastUpdatedAt)
	assert.Equal(t, "v1", saved.LastUpdatedBy)
}

func TestUpdateVendorProfile_RejectsNonVendor(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	userRepo.On("FindUserByID", mock.Anything, "c1").
		Return(&domain.User{UserID: "c1", Role: domain.RoleCustomer}, nil)

	_, err := svc.UpdateVendorProfile(context.Background(), "c1", domain.VendorProfile{BusinessName: "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	vendorRepo.AssertNotCalled(t, "UpsertVendorProfile", mock.Anything, mock.Anything)
}

func TestUpdateInventory_RejectsInvalidPositions(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	testCases := []struct {
		name  string
		items []domain.InventoryItem
	}{
		{"negative amount", []domain.InventoryItem{{Currency: "EUR", Amount: decimal.NewFromInt(-1)}}},
		{"markup above bound", []domain.InventoryItem{{Currency: "EUR", Amount: decimal.NewFromInt(10), Markup: decimal.NewFromFloat(0.51)}}},
		{"markup below bound", []domain.InventoryItem{{Currency: "EUR", Amount: decimal.NewFromInt(10), Markup: decimal.NewFromFloat(-0.51)}}},
		{"duplicate currency", []domain.InventoryItem{
			{Currency: "EUR", Amount: decimal.NewFromInt(10)},
			{Currency: "EUR", Amount: decimal.NewFromInt(20)},
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateInventory(context.Background(), "v1", tc.items)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestProvisionVendor(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	userRepo.On("FindUserByID", mock.Anything, "admin-1").
		Return(&domain.User{UserID: "admin-1", Role: domain.RoleAdmin}, nil)

	var saved domain.User
	userRepo.On("SaveUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil)

	created, err := svc.ProvisionVendor(context.Background(), "admin-1", domain.User{
		Email: "fx@example.com",
		Name:  "FX Trader",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.UserID)
	assert.Equal(t, domain.RoleVendor, saved.Role)
	assert.Equal(t, "admin-1", saved.CreatedBy)
}

func TestProvisionVendor_RequiresAdmin(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	userRepo := new(MockUserRepository)
	rates := new(MockRateSource)
	svc := services.NewVendorService(vendorRepo, userRepo, rates, clock.NewFixed(testNow))

	userRepo.On("FindUserByID", mock.Anything, "v1").
		Return(&domain.User{UserID: "v1", Role: domain.RoleVendor}, nil)

	_, err := svc.ProvisionVendor(context.Background(), "v1", domain.User{Email: "x@y.z", Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	userRepo.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
}
