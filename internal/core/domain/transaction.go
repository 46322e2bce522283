package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of an exchange transaction.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusCancelled  TransactionStatus = "cancelled"
	StatusFailed     TransactionStatus = "failed"
)

// IsTerminal reports whether no further transition is permitted out of the status.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// DeliveryMethod is how the exchanged currency reaches the customer.
type DeliveryMethod string

const (
	DeliveryBank     DeliveryMethod = "bank"
	DeliveryInPerson DeliveryMethod = "in_person"
)

// IsValid reports whether the delivery method is one of the known variants.
func (d DeliveryMethod) IsValid() bool {
	return d == DeliveryBank || d == DeliveryInPerson
}

// Conversion is one pre-conversion snapshot of a transaction. Entries are
// append-only: once recorded they are never mutated.
type Conversion struct {
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ConversionFee   decimal.Decimal `json:"conversionFee"`
	ConvertedAt     time.Time       `json:"convertedAt"`
}

// ExchangeTransaction is a customer's order against a vendor to exchange
// Amount units of FromCurrency for ConvertedAmount units of ToCurrency.
// CreatedAt is immutable and anchors the gray-period computation regardless
// of later conversions.
type ExchangeTransaction struct {
	TransactionID string `json:"transactionID"` // Primary Key (UUID)
	UserID        string `json:"userID"`        // Initiating customer
	VendorID      string `json:"vendorID"`      // Fulfilling vendor

	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`          // Source currency units
	ConvertedAmount decimal.Decimal `json:"convertedAmount"` // Destination currency units
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`    // ConvertedAmount / Amount at creation

	PaymentMethodID   string         `json:"paymentMethodID"`
	DeliveryAddressID string         `json:"deliveryAddressID"`
	DeliveryMethod    DeliveryMethod `json:"deliveryMethod"`
	DeliveryDate      time.Time      `json:"deliveryDate"`

	Status            TransactionStatus `json:"status"`
	ConversionFee     decimal.Decimal   `json:"conversionFee"`     // Accumulated, +25 per conversion
	ConversionHistory []Conversion      `json:"conversionHistory"` // Append-only, oldest first

	FulfillmentSignature *string    `json:"fulfillmentSignature,omitempty"` // Set exactly once at completion
	FulfilledAt          *time.Time `json:"fulfilledAt,omitempty"`

	AuditFields
}

// Snapshot captures the current economic terms of the transaction as a
// conversion-history entry.
func (t ExchangeTransaction) Snapshot(at time.Time) Conversion {
	return Conversion{
		FromCurrency:    t.FromCurrency,
		ToCurrency:      t.ToCurrency,
		Amount:          t.Amount,
		ConvertedAmount: t.ConvertedAmount,
		ConversionFee:   t.ConversionFee,
		ConvertedAt:     at,
	}
}
