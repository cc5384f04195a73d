package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoicemaker/backend/internal/database/repository"
	"github.com/invoicemaker/backend/internal/database/service"
	"github.com/invoicemaker/backend/internal/middleware"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service     service.AuthService
	rateLimiter middleware.RateLimiter
	logger      *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, rateLimiter middleware.RateLimiter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Request/Response DTOs
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Passcode string `json:"passcode" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Passcode string `json:"passcode" binding:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	Expiration  time.Time `json:"expiration"`
	User        UserInfo  `json:"user"`
}

type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Signup handles account creation
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid signup request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request. Email and passcode (min 6 chars) required."})
		return
	}

	user, err := h.service.Signup(req.Email, req.Passcode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Signup successful",
		"data":    user,
	})
}

// Login handles credential verification and token issuance
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request. Email and passcode required."})
		return
	}

	allowed, used, limit, err := h.rateLimiter.CheckLoginAttempts(c.Request.Context(), req.Email)
	if err == nil && !allowed {
		h.logger.Warn("⚠️ [Handler] Login attempts exhausted", "email", req.Email, "used", used, "limit", limit)
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many login attempts. Please try again later."})
		return
	}

	user, tokens, err := h.service.Login(req.Email, req.Passcode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if incErr := h.rateLimiter.IncrementLoginAttempts(c.Request.Context(), req.Email); incErr != nil {
				h.logger.Warn("⚠️ [Handler] Failed to record login attempt", "error", incErr)
			}
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": LoginResponse{
			AccessToken: tokens.AccessToken,
			Expiration:  tokens.Expiration,
			User: UserInfo{
				ID:          user.ID.String(),
				Email:       user.Email,
				DisplayName: user.DisplayName,
			},
		},
	})
}

// Logout revokes the bearer token presented on this request
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextAccessToken)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User logged out"})
}

// GetOtp is the entry point of the password-reset flow. The flow is a
// stub: the account is looked up but no code is generated or mailed.
func (h *AuthHandler) GetOtp(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email query parameter required"})
		return
	}

	user, err := h.service.RequestResetCode(email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// ValidateOtp is a stub for reset-code validation
func (h *AuthHandler) ValidateOtp(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "Not implemented"})
}

// ResetPassword is a stub for the password-reset completion step
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "Not implemented"})
}

// handleServiceError maps service errors to HTTP responses
func (h *AuthHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already registered. Please login instead."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Email or password is incorrect"})
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
	case errors.Is(err, service.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "Not implemented"})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
