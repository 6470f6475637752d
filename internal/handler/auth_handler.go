package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/middleware"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/validator"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	u, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u.Profile()})
}

// Login godoc
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, u, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  u.Profile(),
	})
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.ExtractToken(c); token != "" {
		h.authService.Logout(token)
	}
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	data := middleware.GetSession(c)
	if data == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": data})
}
