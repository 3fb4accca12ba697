package handler

import (
	"log/slog"
	"net/http"

	"safepay/internal/middleware"
	"safepay/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	svc *service.WalletService
	log *slog.Logger
}

func NewWalletHandler(svc *service.WalletService, log *slog.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, log: log}
}

type CreateWalletRequest struct {
	Provider     string `json:"provider" binding:"required,max=100"`
	Type         string `json:"type" binding:"required,max=50"`
	WalletNumber string `json:"walletNumber" binding:"required,max=64"`
}

func (h *WalletHandler) Create(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), service.CreateWalletInput{
		Provider:     req.Provider,
		Type:         req.Type,
		WalletNumber: req.WalletNumber,
	})
	if err != nil {
		respondError(c, h.log, "create wallet", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Wallet successfully created",
		"walletId": w.ID,
	})
}

// View returns the caller's wallet with its transactions resolved.
func (h *WalletHandler) View(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, "view wallet", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
