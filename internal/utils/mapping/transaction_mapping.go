package mapping

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
)

// ToModelExchangeTransaction converts a domain ExchangeTransaction to a model
// ExchangeTransaction. Conversion history is persisted separately.
func ToModelExchangeTransaction(d domain.ExchangeTransaction) models.ExchangeTransaction {
	var deliveryAddressID *string
	if d.DeliveryAddressID != "" {
		deliveryAddressID = &d.DeliveryAddressID
	}
	return models.ExchangeTransaction{
		TransactionID:        d.TransactionID,
		UserID:               d.UserID,
		VendorID:             d.VendorID,
		FromCurrency:         d.FromCurrency,
		ToCurrency:           d.ToCurrency,
		Amount:               d.Amount,
		ConvertedAmount:      d.ConvertedAmount,
		ExchangeRate:         d.ExchangeRate,
		PaymentMethodID:      d.PaymentMethodID,
		DeliveryAddressID:    deliveryAddressID,
		DeliveryMethod:       string(d.DeliveryMethod),
		DeliveryDate:         d.DeliveryDate,
		Status:               string(d.Status),
		ConversionFee:        d.ConversionFee,
		FulfillmentSignature: d.FulfillmentSignature,
		FulfilledAt:          d.FulfilledAt,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeTransaction converts a model ExchangeTransaction plus its
// conversion rows to a domain ExchangeTransaction.
func ToDomainExchangeTransaction(m models.ExchangeTransaction, conversions []models.Conversion) domain.ExchangeTransaction {
	deliveryAddressID := ""
	if m.DeliveryAddressID != nil {
		deliveryAddressID = *m.DeliveryAddressID
	}
	return domain.ExchangeTransaction{
		TransactionID:        m.TransactionID,
		UserID:               m.UserID,
		VendorID:             m.VendorID,
		FromCurrency:         m.FromCurrency,
		ToCurrency:           m.ToCurrency,
		Amount:               m.Amount,
		ConvertedAmount:      m.ConvertedAmount,
		ExchangeRate:         m.ExchangeRate,
		PaymentMethodID:      m.PaymentMethodID,
		DeliveryAddressID:    deliveryAddressID,
		DeliveryMethod:       domain.DeliveryMethod(m.DeliveryMethod),
		DeliveryDate:         m.DeliveryDate,
		Status:               domain.TransactionStatus(m.Status),
		ConversionFee:        m.ConversionFee,
		ConversionHistory:    ToDomainConversions(conversions),
		FulfillmentSignature: m.FulfillmentSignature,
		FulfilledAt:          m.FulfilledAt,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainConversions converts conversion rows to domain history entries.
func ToDomainConversions(rows []models.Conversion) []domain.Conversion {
	history := make([]domain.Conversion, len(rows))
	for i, row := range rows {
		history[i] = domain.Conversion{
			FromCurrency:    row.FromCurrency,
			ToCurrency:      row.ToCurrency,
			Amount:          row.Amount,
			ConvertedAmount: row.ConvertedAmount,
			ConversionFee:   row.ConversionFee,
			ConvertedAt:     row.ConvertedAt,
		}
	}
	return history
}
