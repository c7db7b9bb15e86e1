package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// POST /api/auth/register/
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !response.BindJSON(c, &req) {
		return
	}
	u, err := h.authService.Register(dbcFrom(c), req)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"user":    services.NewUserView(u),
		"message": "User created successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/token/
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !response.BindJSON(c, &req) {
		return
	}
	pair, err := h.authService.Login(dbcFrom(c), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// POST /api/auth/token/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !response.BindJSON(c, &req) {
		return
	}
	access, err := h.authService.Refresh(dbcFrom(c), req.Refresh)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"access": access})
}

// POST /api/auth/logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if !response.BindJSON(c, &req) {
		return
	}
	if err := h.authService.Logout(dbcFrom(c), req.Refresh); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Logged out")
}
