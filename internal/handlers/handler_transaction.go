package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/dto"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// transactionHandler handles HTTP requests for the customer transaction lifecycle.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to customer transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/cancel", h.cancelTransaction)
		transactions.POST("/:id/convert", h.convertTransaction)
	}
}

func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.CreateTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	items := make([]portssvc.CreateTransactionItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = portssvc.CreateTransactionItem{
			VendorID:        item.VendorID,
			FromCurrency:    item.FromCurrency,
			ToCurrency:      item.ToCurrency,
			Amount:          item.Amount,
			ConvertedAmount: item.ConvertedAmount,
		}
	}
	input := portssvc.CreateTransactionsInput{
		UserID:          userID,
		PaymentMethodID: req.PaymentMethodID,
		DeliveryMethod:  domain.DeliveryMethod(req.DeliveryMethod),
		DeliveryDate:    req.DeliveryDate,
		AddressID:       req.AddressID,
		Items:           items,
	}

	txns, err := h.transactionService.CreateTransactions(c.Request.Context(), input)
	if err != nil {
		h.mapTransactionError(c, err, "Failed to create transactions")
		return
	}

	logger.Info("Transactions created", slog.Int("count", len(txns)))
	c.JSON(http.StatusCreated, dto.ToListTransactionsResponse(txns, nil))
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
		return
	}
	transactionID := c.Param("id")

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), userID, role, transactionID)
	if err != nil {
		h.mapTransactionError(c, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	limit, nextToken, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns, newToken, err := h.transactionService.ListUserTransactions(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		h.mapTransactionError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, newToken))
}

func (h *transactionHandler) cancelTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	transactionID := c.Param("id")

	txn, err := h.transactionService.CancelTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		h.mapTransactionError(c, err, "Failed to cancel transaction")
		return
	}

	logger.Info("Transaction cancelled", slog.String("transactionID", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) convertTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.ConvertTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	input := portssvc.ConvertTransactionInput{
		UserID:        userID,
		TransactionID: c.Param("id"),
		ToCurrency:    req.ToCurrency,
		Amount:        req.Amount,
	}

	txn, err := h.transactionService.ConvertTransaction(c.Request.Context(), input)
	if err != nil {
		h.mapTransactionError(c, err, "Failed to convert transaction")
		return
	}

	logger.Info("Transaction converted",
		slog.String("transactionID", txn.TransactionID),
		slog.String("toCurrency", txn.ToCurrency))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// mapTransactionError translates service errors into HTTP responses shared by
// the lifecycle endpoints.
func (h *transactionHandler) mapTransactionError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction or referenced resource not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this transaction"})
	case errors.Is(err, apperrors.ErrGrayPeriodExpired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The modification window for this transaction has expired"})
	case errors.Is(err, apperrors.ErrRateUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rate is currently unavailable"})
	case errors.Is(err, apperrors.ErrCurrencyNotStocked):
		c.JSON(http.StatusConflict, gin.H{"error": "The vendor does not stock the requested currency"})
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		c.JSON(http.StatusConflict, gin.H{"error": "The vendor cannot cover the requested amount"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The transaction was modified concurrently, please retry"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "A transaction with this ID already exists"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// parseListParams extracts the limit and nextToken query parameters shared by
// the list endpoints.
func parseListParams(c *gin.Context) (int, *string, error) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, nil, errors.New("limit must be a positive integer")
		}
		if parsed > maxListLimit {
			parsed = maxListLimit
		}
		limit = parsed
	}

	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}
	return limit, nextToken, nil
}
