package handler

import (
	"log/slog"
	"net/http"

	"safepay/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *service.UserService
	auth  *service.AuthService
	log   *slog.Logger
}

func NewAuthHandler(users *service.UserService, auth *service.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, auth: auth, log: log}
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Surname     string `json:"surname" binding:"required,max=100"`
	Username    string `json:"username" binding:"required,min=3,max=64"`
	PhoneNumber string `json:"phoneNumber" binding:"required,max=32"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, token, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:        req.Name,
		Surname:     req.Surname,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, h.log, "register", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User has been registered",
		"userId":  u.ID,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, "login", err)
		return
	}
	h.log.Info("user logged in", "user_id", u.ID)
	c.JSON(http.StatusOK, gin.H{
		"userId":   u.ID,
		"username": u.Username,
		"name":     u.Name,
		"surname":  u.Surname,
		"email":    u.Email,
		"token":    token,
	})
}
