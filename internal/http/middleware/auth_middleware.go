package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/domain"
)

// IdentityKey is the gin context key carrying the authenticated identity.
const IdentityKey = "identity"

// AuthMiddleware creates authentication middleware. A valid bearer token is
// required; the account behind it must still exist and be Active, so a
// deactivated account loses API access before its access token expires.
func AuthMiddleware(tokenSvc domain.TokenService, accountRepo domain.AccountRepository, tokenRepo domain.RefreshTokenRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.VerifyAccessToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		account, err := accountRepo.FindByID(c.Request.Context(), claims.AccountID)
		if err != nil || account.Status != domain.AccountActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account invalid or deactivated"})
			c.Abort()
			return
		}

		identity := &domain.Identity{
			AccountID: account.ID,
			Role:      account.Role,
			OwnsToken: func(refreshToken string) bool {
				owned, err := tokenRepo.FindByAccount(c.Request.Context(), account.ID)
				if err != nil {
					return false
				}
				for _, t := range owned {
					if t.Token == refreshToken {
						return true
					}
				}
				return false
			},
		}

		c.Set(IdentityKey, identity)
		// String keys kept for Casbin compatibility.
		c.Set("user_id", fmt.Sprintf("%d", account.ID))
		c.Set("user_role", string(account.Role))

		c.Next()
	})
}

// IdentityFrom extracts the authenticated identity set by AuthMiddleware.
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	value, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*domain.Identity)
	return identity, ok
}
