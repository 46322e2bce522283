package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeTransaction mirrors the transactions table.
type ExchangeTransaction struct {
	TransactionID string `json:"transactionID"`
	UserID        string `json:"userID"`
	VendorID      string `json:"vendorID"`

	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`

	PaymentMethodID string `json:"paymentMethodID"`
	// DeliveryAddressID is NULL for in-person delivery; the column carries a
	// foreign key to addresses, so an absent address must not bind as ''.
	DeliveryAddressID *string   `json:"deliveryAddressID,omitempty"`
	DeliveryMethod    string    `json:"deliveryMethod"`
	DeliveryDate      time.Time `json:"deliveryDate"`

	Status        string          `json:"status"`
	ConversionFee decimal.Decimal `json:"conversionFee"`

	FulfillmentSignature *string    `json:"fulfillmentSignature,omitempty"`
	FulfilledAt          *time.Time `json:"fulfilledAt,omitempty"`

	AuditFields
}

// Conversion mirrors one row of the transaction_conversions table. Rows are
// insert-only; ordering within a transaction follows converted_at.
type Conversion struct {
	ConversionID    string          `json:"conversionID"`
	TransactionID   string          `json:"transactionID"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ConversionFee   decimal.Decimal `json:"conversionFee"`
	ConvertedAt     time.Time       `json:"convertedAt"`
}
