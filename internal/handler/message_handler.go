package handler

import (
	"log/slog"
	"net/http"

	"safepay/internal/middleware"
	"safepay/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc *service.AnalysisService
	log *slog.Logger
}

func NewMessageHandler(svc *service.AnalysisService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log}
}

type AnalyzeRequest struct {
	Message string `json:"message" binding:"required,max=4096"`
}

// Analyze classifies a message and answers with the verdict.
func (h *MessageHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.svc.Analyze(c.Request.Context(), middleware.GetUserID(c), req.Message)
	if err != nil {
		respondError(c, h.log, "analyze", err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *MessageHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, "get messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}
