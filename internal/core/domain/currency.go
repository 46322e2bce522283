package domain

// SupportedCurrency is a currency the rate provider quotes.
type SupportedCurrency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
