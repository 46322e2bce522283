package mapping

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/FxPeer/fx_marketplace_app/internal/models"
)

// ToModelVendorProfile converts a domain VendorProfile to a model VendorProfile.
// Inventory rows are converted separately via ToModelInventoryItems.
func ToModelVendorProfile(d domain.VendorProfile) models.VendorProfile {
	return models.VendorProfile{
		VendorID:          d.VendorID,
		BusinessName:      d.BusinessName,
		Description:       d.Description,
		IsProfileComplete: d.IsProfileComplete,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVendorProfile converts a model VendorProfile plus its inventory rows
// to a domain VendorProfile.
func ToDomainVendorProfile(m models.VendorProfile, inventory []models.InventoryItem) domain.VendorProfile {
	return domain.VendorProfile{
		VendorID:          m.VendorID,
		BusinessName:      m.BusinessName,
		Description:       m.Description,
		Inventory:         ToDomainInventoryItems(inventory),
		IsProfileComplete: m.IsProfileComplete,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInventoryItems converts domain inventory entries to rows for a vendor.
func ToModelInventoryItems(vendorID string, items []domain.InventoryItem) []models.InventoryItem {
	rows := make([]models.InventoryItem, len(items))
	for i, item := range items {
		rows[i] = models.InventoryItem{
			VendorID:     vendorID,
			CurrencyCode: item.Currency,
			Amount:       item.Amount,
			Markup:       item.Markup,
		}
	}
	return rows
}

// ToDomainInventoryItems converts inventory rows to domain entries.
func ToDomainInventoryItems(rows []models.InventoryItem) []domain.InventoryItem {
	items := make([]domain.InventoryItem, len(rows))
	for i, row := range rows {
		items[i] = domain.InventoryItem{
			Currency: row.CurrencyCode,
			Amount:   row.Amount,
			Markup:   row.Markup,
		}
	}
	return items
}
