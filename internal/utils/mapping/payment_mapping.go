package mapping

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
)

// ToDomainPaymentMethod converts a payment_methods row to the tagged-variant
// domain representation.
func ToDomainPaymentMethod(m models.PaymentMethod) domain.PaymentMethod {
	pm := domain.PaymentMethod{
		PaymentMethodID: m.PaymentMethodID,
		UserID:          m.UserID,
		Type:            domain.PaymentMethodType(m.Type),
		IsDefault:       m.IsDefault,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}

	switch pm.Type {
	case domain.PaymentCreditCard:
		pm.Card = &domain.CardDetails{
			CardNumber:     deref(m.CardNumber),
			CardExpiry:     deref(m.CardExpiry),
			CardHolderName: deref(m.CardHolderName),
		}
	case domain.PaymentBankWire:
		pm.Bank = &domain.BankDetails{
			BankName:          deref(m.BankName),
			AccountNumber:     deref(m.AccountNumber),
			RoutingNumber:     deref(m.RoutingNumber),
			AccountHolderName: deref(m.AccountHolderName),
		}
	}

	return pm
}

// ToDomainAddress converts an addresses row to the domain representation.
func ToDomainAddress(m models.Address) domain.Address {
	return domain.Address{
		AddressID:   m.AddressID,
		UserID:      m.UserID,
		Street:      m.Street,
		City:        m.City,
		State:       m.State,
		PostalCode:  m.PostalCode,
		Country:     m.Country,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
