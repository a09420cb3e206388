package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/http/middleware"
)

const refreshTokenCookie = "refreshToken"

// AuthHandlers handles the session lifecycle HTTP surface: authenticate,
// refresh and revoke. The refresh token travels in an HTTP-only cookie so
// browser scripts never see it; revoke also accepts it in the body for
// admins revoking someone else's token.
type AuthHandlers struct {
	sessionSvc domain.SessionService
	refreshTTL time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(sessionSvc domain.SessionService, refreshTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{
		sessionSvc: sessionSvc,
		refreshTTL: refreshTTL,
	}
}

// AuthenticateRequest represents an authentication request
type AuthenticateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RevokeRequest represents a token revocation request
type RevokeRequest struct {
	Token string `json:"token"`
}

// Authenticate handles credential login
func (h *AuthHandlers) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessionSvc.Authenticate(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect"})
		case errors.Is(err, domain.ErrAccountUnverified):
			c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified"})
		case errors.Is(err, domain.ErrAccountInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		case errors.Is(err, domain.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed attempts, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"account": gin.H{
				"id":    result.Account.ID,
				"email": result.Account.Email,
				"role":  result.Account.Role,
			},
		},
	})
}

// Refresh rotates the refresh token from the cookie and issues a new access
// token. A reused or revoked token fails with 401.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshTokenCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token cookie required"})
		return
	}

	result, err := h.sessionSvc.Refresh(c.Request.Context(), token, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, domain.ErrAccountInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		}
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
		},
	})
}

// Revoke invalidates a refresh token. Callers may revoke their own tokens;
// only Admins may revoke tokens they do not own.
func (h *AuthHandlers) Revoke(c *gin.Context) {
	var req RevokeRequest
	_ = c.ShouldBindJSON(&req)

	token := req.Token
	if token == "" {
		token, _ = c.Cookie(refreshTokenCookie)
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if !identity.IsAdmin() && !identity.OwnsToken(token) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
		return
	}

	if err := h.sessionSvc.Revoke(c.Request.Context(), token, c.ClientIP()); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Revocation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Token revoked"},
	})
}

func (h *AuthHandlers) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshTokenCookie, token, int(h.refreshTTL.Seconds()), "/", "", false, true)
}
