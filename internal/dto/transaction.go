package dto

import (
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionItemRequest defines one line of a batch checkout, quoted
// client-side from a matcher offer.
type CreateTransactionItemRequest struct {
	VendorID        string          `json:"vendorId" binding:"required"`
	FromCurrency    string          `json:"fromCurrency" binding:"required,len=3"`
	ToCurrency      string          `json:"toCurrency" binding:"required,len=3"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount" binding:"required"`
}

// CreateTransactionsRequest defines the checkout payload. All items share one
// payment method, delivery method, date and (for bank delivery) address.
type CreateTransactionsRequest struct {
	Items           []CreateTransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethodID string                         `json:"paymentMethodId" binding:"required"`
	DeliveryMethod  string                         `json:"deliveryMethod" binding:"required,oneof=bank in_person"`
	DeliveryDate    time.Time                      `json:"deliveryDate" binding:"required"`
	AddressID       *string                        `json:"addressId,omitempty"`
}

// ConvertTransactionRequest defines the new terms for an in-place conversion.
// The converted amount is re-quoted server-side from a fresh rate.
type ConvertTransactionRequest struct {
	ToCurrency string          `json:"toCurrency" binding:"required,len=3"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// FulfillTransactionRequest defines the vendor's settlement payload.
type FulfillTransactionRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// ConversionResponse defines one archived conversion-history entry.
type ConversionResponse struct {
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	ConversionFee   decimal.Decimal `json:"conversionFee"`
	ConvertedAt     time.Time       `json:"convertedAt"`
}

// TransactionResponse defines the data returned for an exchange transaction.
type TransactionResponse struct {
	TransactionID        string               `json:"transactionId"`
	UserID               string               `json:"userId"`
	VendorID             string               `json:"vendorId"`
	FromCurrency         string               `json:"fromCurrency"`
	ToCurrency           string               `json:"toCurrency"`
	Amount               decimal.Decimal      `json:"amount"`
	ConvertedAmount      decimal.Decimal      `json:"convertedAmount"`
	ExchangeRate         decimal.Decimal      `json:"exchangeRate"`
	PaymentMethodID      string               `json:"paymentMethodId"`
	DeliveryAddressID    string               `json:"deliveryAddressId,omitempty"`
	DeliveryMethod       string               `json:"deliveryMethod"`
	DeliveryDate         time.Time            `json:"deliveryDate"`
	Status               string               `json:"status"`
	ConversionFee        decimal.Decimal      `json:"conversionFee"`
	ConversionHistory    []ConversionResponse `json:"conversionHistory,omitempty"`
	FulfillmentSignature *string              `json:"fulfillmentSignature,omitempty"`
	FulfilledAt          *time.Time           `json:"fulfilledAt,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	LastUpdatedAt        time.Time            `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps a page of transactions with the pagination token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.ExchangeTransaction to its DTO.
func ToTransactionResponse(txn *domain.ExchangeTransaction) TransactionResponse {
	history := make([]ConversionResponse, len(txn.ConversionHistory))
	for i, conv := range txn.ConversionHistory {
		history[i] = ConversionResponse{
			FromCurrency:    conv.FromCurrency,
			ToCurrency:      conv.ToCurrency,
			Amount:          conv.Amount,
			ConvertedAmount: conv.ConvertedAmount,
			ConversionFee:   conv.ConversionFee,
			ConvertedAt:     conv.ConvertedAt,
		}
	}
	if len(history) == 0 {
		history = nil
	}
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		UserID:               txn.UserID,
		VendorID:             txn.VendorID,
		FromCurrency:         txn.FromCurrency,
		ToCurrency:           txn.ToCurrency,
		Amount:               txn.Amount,
		ConvertedAmount:      txn.ConvertedAmount,
		ExchangeRate:         txn.ExchangeRate,
		PaymentMethodID:      txn.PaymentMethodID,
		DeliveryAddressID:    txn.DeliveryAddressID,
		DeliveryMethod:       string(txn.DeliveryMethod),
		DeliveryDate:         txn.DeliveryDate,
		Status:               string(txn.Status),
		ConversionFee:        txn.ConversionFee,
		ConversionHistory:    history,
		FulfillmentSignature: txn.FulfillmentSignature,
		FulfilledAt:          txn.FulfilledAt,
		CreatedAt:            txn.CreatedAt,
		LastUpdatedAt:        txn.LastUpdatedAt,
	}
}

// ToListTransactionsResponse converts a page of transactions to its DTO.
func ToListTransactionsResponse(txns []domain.ExchangeTransaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
