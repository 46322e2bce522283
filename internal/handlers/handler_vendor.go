package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/dto"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// vendorHandler handles HTTP requests for vendor self-service and settlement.
type vendorHandler struct {
	vendorService      portssvc.VendorSvcFacade
	transactionService portssvc.TransactionSvcFacade
	fulfillmentService portssvc.FulfillmentSvcFacade
}

// newVendorHandler creates a new vendorHandler.
func newVendorHandler(
	vs portssvc.VendorSvcFacade,
	ts portssvc.TransactionSvcFacade,
	fs portssvc.FulfillmentSvcFacade,
) *vendorHandler {
	return &vendorHandler{
		vendorService:      vs,
		transactionService: ts,
		fulfillmentService: fs,
	}
}

// registerVendorRoutes registers the vendor-role routes. The group is expected
// to carry the vendor role guard already.
func registerVendorRoutes(
	rg *gin.RouterGroup,
	vendorService portssvc.VendorSvcFacade,
	transactionService portssvc.TransactionSvcFacade,
	fulfillmentService portssvc.FulfillmentSvcFacade,
) {
	h := newVendorHandler(vendorService, transactionService, fulfillmentService)

	rg.GET("/profile", h.getProfile)
	rg.PUT("/profile", h.updateProfile)
	rg.PUT("/inventory", h.updateInventory)
	rg.GET("/transactions", h.listTransactions)
	rg.POST("/transactions/:id/fulfill", h.fulfillTransaction)
}

func (h *vendorHandler) getProfile(c *gin.Context) {
	vendorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	profile, err := h.vendorService.GetVendorProfile(c.Request.Context(), vendorID)
	if err != nil {
		h.mapVendorError(c, err, "Failed to get vendor profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToVendorProfileResponse(profile))
}

func (h *vendorHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vendorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.UpdateVendorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateVendorProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.vendorService.UpdateVendorProfile(c.Request.Context(), vendorID, req.ToDomainProfile())
	if err != nil {
		h.mapVendorError(c, err, "Failed to update vendor profile")
		return
	}

	logger.Info("Vendor profile updated", slog.String("vendorID", vendorID))
	c.JSON(http.StatusOK, dto.ToVendorProfileResponse(profile))
}

func (h *vendorHandler) updateInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vendorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInventory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.vendorService.UpdateInventory(c.Request.Context(), vendorID, req.ToDomainItems())
	if err != nil {
		h.mapVendorError(c, err, "Failed to update inventory")
		return
	}

	logger.Info("Vendor inventory updated",
		slog.String("vendorID", vendorID),
		slog.Int("items", len(profile.Inventory)))
	c.JSON(http.StatusOK, dto.ToVendorProfileResponse(profile))
}

func (h *vendorHandler) listTransactions(c *gin.Context) {
	vendorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	limit, nextToken, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns, newToken, err := h.transactionService.ListVendorTransactions(c.Request.Context(), vendorID, limit, nextToken)
	if err != nil {
		h.mapVendorError(c, err, "Failed to list vendor transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, newToken))
}

func (h *vendorHandler) fulfillTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vendorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.FulfillTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FulfillTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	transactionID := c.Param("id")

	txn, err := h.fulfillmentService.FulfillTransaction(c.Request.Context(), vendorID, transactionID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "This transaction is not assigned to you"})
		case errors.Is(err, apperrors.ErrAlreadyFulfilled):
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction is no longer pending"})
		case errors.Is(err, apperrors.ErrCurrencyNotStocked):
			c.JSON(http.StatusConflict, gin.H{"error": "Your inventory does not carry a required currency"})
		case errors.Is(err, apperrors.ErrInsufficientInventory):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient inventory to settle this transaction"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Settlement contention, please retry"})
		default:
			logger.Error("Failed to fulfill transaction",
				slog.String("transactionID", transactionID),
				slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fulfill transaction"})
		}
		return
	}

	logger.Info("Transaction fulfilled",
		slog.String("transactionID", txn.TransactionID),
		slog.String("vendorID", vendorID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *vendorHandler) mapVendorError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor profile not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
