package dto

import (
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryItemRequest defines one currency position in a vendor's inventory.
type InventoryItemRequest struct {
	Currency string          `json:"currency" binding:"required,len=3"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Markup   decimal.Decimal `json:"markup"`
}

// UpdateVendorProfileRequest defines the vendor self-service profile payload.
type UpdateVendorProfileRequest struct {
	BusinessName string                 `json:"businessName" binding:"required"`
	Description  string                 `json:"description"`
	Inventory    []InventoryItemRequest `json:"inventory" binding:"dive"`
}

// UpdateInventoryRequest replaces a vendor's inventory wholesale.
type UpdateInventoryRequest struct {
	Inventory []InventoryItemRequest `json:"inventory" binding:"required,dive"`
}

// InventoryItemResponse defines one currency position in responses.
type InventoryItemResponse struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Markup   decimal.Decimal `json:"markup"`
}

// VendorProfileResponse defines the data returned for a vendor profile.
type VendorProfileResponse struct {
	VendorID          string                  `json:"vendorId"`
	BusinessName      string                  `json:"businessName"`
	Description       string                  `json:"description"`
	Inventory         []InventoryItemResponse `json:"inventory"`
	IsProfileComplete bool                    `json:"isProfileComplete"`
	CreatedAt         time.Time               `json:"createdAt"`
	LastUpdatedAt     time.Time               `json:"lastUpdatedAt"`
}

// ToDomainInventoryItems converts inventory request entries to domain items.
func (r UpdateVendorProfileRequest) ToDomainProfile() domain.VendorProfile {
	return domain.VendorProfile{
		BusinessName: r.BusinessName,
		Description:  r.Description,
		Inventory:    toDomainInventory(r.Inventory),
	}
}

// ToDomainItems converts the replacement inventory to domain items.
func (r UpdateInventoryRequest) ToDomainItems() []domain.InventoryItem {
	return toDomainInventory(r.Inventory)
}

func toDomainInventory(items []InventoryItemRequest) []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(items))
	for i, item := range items {
		out[i] = domain.InventoryItem{
			Currency: item.Currency,
			Amount:   item.Amount,
			Markup:   item.Markup,
		}
	}
	return out
}

// ToVendorProfileResponse converts a domain.VendorProfile to its DTO.
func ToVendorProfileResponse(profile *domain.VendorProfile) VendorProfileResponse {
	inventory := make([]InventoryItemResponse, len(profile.Inventory))
	for i, item := range profile.Inventory {
		inventory[i] = InventoryItemResponse{
			Currency: item.Currency,
			Amount:   item.Amount,
			Markup:   item.Markup,
		}
	}
	return VendorProfileResponse{
		VendorID:          profile.VendorID,
		BusinessName:      profile.BusinessName,
		Description:       profile.Description,
		Inventory:         inventory,
		IsProfileComplete: profile.IsProfileComplete,
		CreatedAt:         profile.CreatedAt,
		LastUpdatedAt:     profile.LastUpdatedAt,
	}
}

// ProvisionVendorRequest defines the admin payload to create a vendor account.
type ProvisionVendorRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// UserResponse defines the data returned for a provisioned user.
type UserResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to its DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
