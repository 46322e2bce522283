package domain

import "fmt"

// PaymentMethodType tags the variant of a stored payment method.
type PaymentMethodType string

const (
	PaymentCreditCard PaymentMethodType = "credit_card"
	PaymentBankWire   PaymentMethodType = "bank_wire"
)

// CardDetails holds the credit-card variant fields. Only the last 4 digits of
// the card number are stored.
type CardDetails struct {
	CardNumber     string `json:"cardNumber"` // last 4 digits only
	CardExpiry     string `json:"cardExpiry"`
	CardHolderName string `json:"cardHolderName"`
}

// BankDetails holds the bank-wire variant fields.
type BankDetails struct {
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	RoutingNumber     string `json:"routingNumber"`
	AccountHolderName string `json:"accountHolderName"`
}

// PaymentMethod is a customer's stored payment instrument. Exactly one of
// Card or Bank is set, matching Type. The core only reads these for ownership
// validation and display; storage/management is external.
type PaymentMethod struct {
	PaymentMethodID string            `json:"paymentMethodID"` // Primary Key (UUID)
	UserID          string            `json:"userID"`
	Type            PaymentMethodType `json:"type"`
	Card            *CardDetails      `json:"card,omitempty"`
	Bank            *BankDetails      `json:"bank,omitempty"`
	IsDefault       bool              `json:"isDefault"`
	AuditFields
}

// Validate checks that the variant details match the declared type.
func (p PaymentMethod) Validate() error {
	switch p.Type {
	case PaymentCreditCard:
		if p.Card == nil {
			return fmt.Errorf("credit_card payment method requires card details")
		}
	case PaymentBankWire:
		if p.Bank == nil {
			return fmt.Errorf("bank_wire payment method requires bank details")
		}
	default:
		return fmt.Errorf("unknown payment method type %q", p.Type)
	}
	return nil
}
