package mapping

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
)

// ToDomainUser converts a users row to the domain representation.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Email:       m.Email,
		Name:        m.Name,
		Role:        domain.UserRole(m.Role),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUser converts a domain User to a users row.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:      d.UserID,
		Email:       d.Email,
		Name:        d.Name,
		Role:        string(d.Role),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
