package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/hrflowsvc/internal/config"
	httpx "github.com/you/hrflowsvc/internal/http"
	"github.com/you/hrflowsvc/internal/http/handlers"
	"github.com/you/hrflowsvc/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.SessionSvc, cfg.RefreshTTL)
	accountH := handlers.NewAccountHandlers(c.AccountSvc, cfg.AppOrigin)
	requestH := handlers.NewRequestHandlers(c.WorkflowSvc)

	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.AccountRepo, c.TokenRepo)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, accountH, requestH, jwtMW, casbinMW)

	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) == 0 {
		c.Casbin.E.AddPolicy("role_Admin", "/accounts", "(GET|POST)")
		c.Casbin.E.AddPolicy("role_Admin", "/accounts/*", "(GET|POST|PUT|DELETE)")
		c.Casbin.E.AddPolicy("role_Admin", "/requests", "(GET|POST)")
		c.Casbin.E.AddPolicy("role_Admin", "/requests/*", "(GET|PUT)")
		c.Casbin.E.AddPolicy("role_Moderator", "/requests", "(GET|POST)")
		c.Casbin.E.AddPolicy("role_Moderator", "/requests/*", "(GET|PUT)")
		c.Casbin.E.AddPolicy("role_Moderator", "/accounts/:id", "GET")
		c.Casbin.E.AddPolicy("role_Moderator", "/accounts/revoke-token", "POST")
		c.Casbin.E.AddPolicy("role_User", "/requests", "(GET|POST)")
		c.Casbin.E.AddPolicy("role_User", "/requests/*", "(GET|PUT)")
		c.Casbin.E.AddPolicy("role_User", "/accounts/:id", "(GET|PUT|DELETE)")
		c.Casbin.E.AddPolicy("role_User", "/accounts/revoke-token", "POST")
		_ = c.Casbin.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
