package domain

// Address is a customer's stored delivery address. Read-only to the core;
// it is validated for ownership at transaction creation.
type Address struct {
	AddressID  string `json:"addressID"` // Primary Key (UUID)
	UserID     string `json:"userID"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	AuditFields
}
