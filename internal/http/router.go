package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/hrflowsvc/internal/http/handlers"
	"github.com/you/hrflowsvc/internal/http/middleware"
	"github.com/you/hrflowsvc/internal/obs"
)

func BuildRouter(ah *handlers.AuthHandlers, ach *handlers.AccountHandlers, rh *handlers.RequestHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(obs.Handler()))

	// Public surface: no token required.
	accounts := r.Group("/accounts")
	accounts.POST("/register", ach.Register)
	accounts.POST("/verify-email", ach.VerifyEmail)
	accounts.POST("/forgot-password", ach.ForgotPassword)
	accounts.POST("/validate-reset-token", ach.ValidateResetToken)
	accounts.POST("/reset-password", ach.ResetPassword)
	accounts.POST("/authenticate", ah.Authenticate)
	accounts.POST("/refresh-token", ah.Refresh)

	// Authenticated surface. Ownership checks beyond the role policy live in
	// the handlers.
	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.POST("/accounts/revoke-token", ah.Revoke)
	v.GET("/accounts/:id", ach.GetByID)
	v.PUT("/accounts/:id", ach.Update)
	v.DELETE("/accounts/:id", ach.Delete)

	v.POST("/requests", rh.Create)
	v.GET("/requests", rh.List)
	v.GET("/requests/:id", rh.GetByID)
	v.PUT("/requests/:id/status", rh.ChangeStatus)

	adm := r.Group("/accounts").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("", ach.List)
	adm.POST("", ach.Create)

	return r
}
