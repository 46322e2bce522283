package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/dto"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler handles HTTP requests for admin operations.
type adminHandler struct {
	vendorService   portssvc.VendorSvcFacade
	settingsService portssvc.SettingsSvcFacade
}

// newAdminHandler creates a new adminHandler.
func newAdminHandler(vs portssvc.VendorSvcFacade, ss portssvc.SettingsSvcFacade) *adminHandler {
	return &adminHandler{
		vendorService:   vs,
		settingsService: ss,
	}
}

// registerAdminRoutes registers the admin-role routes. The group is expected
// to carry the admin role guard already.
func registerAdminRoutes(rg *gin.RouterGroup, vendorService portssvc.VendorSvcFacade, settingsService portssvc.SettingsSvcFacade) {
	h := newAdminHandler(vendorService, settingsService)

	rg.POST("/vendors", h.provisionVendor)
	rg.GET("/gray-period", h.getGrayPeriod)
	rg.PUT("/gray-period", h.setGrayPeriod)
}

func (h *adminHandler) provisionVendor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.ProvisionVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProvisionVendor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.vendorService.ProvisionVendor(c.Request.Context(), adminID, domain.User{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		default:
			logger.Error("Failed to provision vendor", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision vendor"})
		}
		return
	}

	logger.Info("Vendor provisioned", slog.String("userID", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *adminHandler) getGrayPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	gp, err := h.settingsService.GetGrayPeriod(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get gray period", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get gray period"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGrayPeriodResponse(gp))
}

func (h *adminHandler) setGrayPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.SetGrayPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetGrayPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	gp, err := h.settingsService.SetGrayPeriod(c.Request.Context(), adminID, *req.Hours)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		default:
			logger.Error("Failed to set gray period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set gray period"})
		}
		return
	}

	logger.Info("Gray period updated", slog.Float64("hours", gp.Hours))
	c.JSON(http.StatusOK, dto.ToGrayPeriodResponse(gp))
}
