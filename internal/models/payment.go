package models

// PaymentMethod mirrors the payment_methods table. The card_* and bank_*
// columns are nullable; which group is populated depends on the type tag.
type PaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodID"`
	UserID          string `json:"userID"`
	Type            string `json:"type"`

	CardNumber     *string `json:"cardNumber,omitempty"` // last 4 digits only
	CardExpiry     *string `json:"cardExpiry,omitempty"`
	CardHolderName *string `json:"cardHolderName,omitempty"`

	BankName          *string `json:"bankName,omitempty"`
	AccountNumber     *string `json:"accountNumber,omitempty"`
	RoutingNumber     *string `json:"routingNumber,omitempty"`
	AccountHolderName *string `json:"accountHolderName,omitempty"`

	IsDefault bool `json:"isDefault"`
	AuditFields
}

// Address mirrors the addresses table.
type Address struct {
	AddressID  string `json:"addressID"`
	UserID     string `json:"userID"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	AuditFields
}
