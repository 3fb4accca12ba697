package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"safepay/internal/middleware"
	"safepay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	svc *service.TransactionService
	log *slog.Logger
}

func NewTransactionHandler(svc *service.TransactionService, log *slog.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, log: log}
}

// Amount accepts a JSON number or a decimal string.
type CreateTransactionRequest struct {
	Username  string          `json:"username" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=255"`
}

type UpdateTransactionRequest struct {
	Status string `json:"status" binding:"required"`
}

var errAmountRequired = errors.New("amount is required")

func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount.IsZero() {
		badRequest(c, errAmountRequired)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), service.CreateTransactionInput{
		RecipientUsername: req.Username,
		Amount:            req.Amount,
		Reference:         req.Reference,
	})
	if err != nil {
		respondError(c, h.log, "create transaction", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Transaction Created",
		"transactionID": t.ID,
		"status":        t.Status,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, "get transaction", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	t, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, "update transaction", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Transaction status updated",
		"transactionID": t.ID,
		"newStatus":     t.Status,
	})
}
