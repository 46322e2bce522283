package dto

import "github.com/FxPeer/fx_marketplace_app/internal/core/domain"

// SetGrayPeriodRequest defines the admin payload for the gray period window.
// Hours may be the -1 sentinel to revert to the built-in default.
type SetGrayPeriodRequest struct {
	Hours *float64 `json:"hours" binding:"required"`
}

// GrayPeriodResponse defines the gray period returned to admins.
type GrayPeriodResponse struct {
	Hours float64 `json:"hours"`
	IsSet bool    `json:"isSet"`
}

// ToGrayPeriodResponse converts a domain.GrayPeriod to its DTO.
func ToGrayPeriodResponse(gp domain.GrayPeriod) GrayPeriodResponse {
	return GrayPeriodResponse{
		Hours: gp.Hours,
		IsSet: gp.IsSet(),
	}
}
