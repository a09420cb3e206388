package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/domain"
)

// AuthMW wraps the token service and repositories for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	accountRepo domain.AccountRepository
	tokenRepo   domain.RefreshTokenRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, accountRepo domain.AccountRepository, tokenRepo domain.RefreshTokenRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.accountRepo, mw.tokenRepo)
}
