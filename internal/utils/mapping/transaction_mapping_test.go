package mapping_test

import (
	"testing"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
	"github.com/FxPeer/fx_marketplace_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDomainTransaction(deliveryMethod domain.DeliveryMethod, addressID string) domain.ExchangeTransaction {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return domain.ExchangeTransaction{
		TransactionID:     "t1",
		UserID:            "u1",
		VendorID:          "v1",
		FromCurrency:      "USD",
		ToCurrency:        "EUR",
		Amount:            decimal.NewFromInt(100),
		ConvertedAmount:   decimal.NewFromInt(92),
		ExchangeRate:      decimal.NewFromFloat(0.92),
		PaymentMethodID:   "pm-1",
		DeliveryAddressID: addressID,
		DeliveryMethod:    deliveryMethod,
		DeliveryDate:      now.Add(72 * time.Hour),
		Status:            domain.StatusPending,
		ConversionFee:     decimal.Zero,
		AuditFields:       domain.AuditFields{CreatedAt: now, CreatedBy: "u1", LastUpdatedAt: now, LastUpdatedBy: "u1"},
	}
}

func TestToModelExchangeTransaction_DeliveryAddress(t *testing.T) {
	t.Run("in-person delivery maps to NULL", func(t *testing.T) {
		// The column carries a foreign key to addresses; an absent address
		// must bind as NULL, never as the empty string.
		m := mapping.ToModelExchangeTransaction(sampleDomainTransaction(domain.DeliveryInPerson, ""))
		assert.Nil(t, m.DeliveryAddressID)
	})

	t.Run("bank delivery keeps the address", func(t *testing.T) {
		m := mapping.ToModelExchangeTransaction(sampleDomainTransaction(domain.DeliveryBank, "addr-1"))
		require.NotNil(t, m.DeliveryAddressID)
		assert.Equal(t, "addr-1", *m.DeliveryAddressID)
	})
}

func TestToDomainExchangeTransaction_DeliveryAddress(t *testing.T) {
	base := mapping.ToModelExchangeTransaction(sampleDomainTransaction(domain.DeliveryBank, "addr-1"))

	t.Run("round-trips the address", func(t *testing.T) {
		d := mapping.ToDomainExchangeTransaction(base, nil)
		assert.Equal(t, "addr-1", d.DeliveryAddressID)
	})

	t.Run("NULL maps to empty", func(t *testing.T) {
		m := base
		m.DeliveryAddressID = nil
		d := mapping.ToDomainExchangeTransaction(m, nil)
		assert.Equal(t, "", d.DeliveryAddressID)
	})
}

func TestToDomainExchangeTransaction_ConversionHistory(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m := mapping.ToModelExchangeTransaction(sampleDomainTransaction(domain.DeliveryInPerson, ""))
	rows := []models.Conversion{
		{
			ConversionID:    "c1",
			TransactionID:   "t1",
			FromCurrency:    "USD",
			ToCurrency:      "EUR",
			Amount:          decimal.NewFromInt(100),
			ConvertedAmount: decimal.NewFromInt(92),
			ConversionFee:   decimal.Zero,
			ConvertedAt:     now,
		},
	}

	d := mapping.ToDomainExchangeTransaction(m, rows)
	require.Len(t, d.ConversionHistory, 1)
	assert.Equal(t, "EUR", d.ConversionHistory[0].ToCurrency)
	assert.Equal(t, now, d.ConversionHistory[0].ConvertedAt)
}
