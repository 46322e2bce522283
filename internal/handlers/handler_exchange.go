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

// exchangeHandler handles HTTP requests for vendor matching and rate metadata.
type exchangeHandler struct {
	vendorService portssvc.VendorSvcFacade
	rateSource    portssvc.RateSource
}

// newExchangeHandler creates a new exchangeHandler.
func newExchangeHandler(vs portssvc.VendorSvcFacade, rs portssvc.RateSource) *exchangeHandler {
	return &exchangeHandler{
		vendorService: vs,
		rateSource:    rs,
	}
}

// registerExchangeRoutes registers routes related to exchange discovery.
func registerExchangeRoutes(rg *gin.RouterGroup, vendorService portssvc.VendorSvcFacade, rateSource portssvc.RateSource) {
	h := newExchangeHandler(vendorService, rateSource)

	exchange := rg.Group("/exchange")
	{
		exchange.GET("/vendors", h.matchVendors)
		exchange.GET("/currencies", h.listSupportedCurrencies)
	}
}

func (h *exchangeHandler) matchVendors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchVendorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for MatchVendors", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	offers, err := h.vendorService.MatchVendors(c.Request.Context(), req.FromCurrency, req.ToCurrency, req.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrRateUnavailable) {
			logger.Warn("Rate source unavailable for vendor match", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rate is currently unavailable"})
		} else {
			logger.Error("Failed to match vendors", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match vendors"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListVendorOfferResponse(offers))
}

func (h *exchangeHandler) listSupportedCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.rateSource.ListSupportedCurrencies(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			logger.Warn("Rate source unavailable for currency list", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rate provider is currently unavailable"})
		} else {
			logger.Error("Failed to list supported currencies", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list supported currencies"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListSupportedCurrencyResponse(currencies))
}
