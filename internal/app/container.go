package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/hrflowsvc/domain"
	"github.com/you/hrflowsvc/internal/config"
	"github.com/you/hrflowsvc/internal/infrastructure/auth"
	"github.com/you/hrflowsvc/internal/infrastructure/database"
	"github.com/you/hrflowsvc/internal/infrastructure/notifications"
	"github.com/you/hrflowsvc/internal/infrastructure/repositories"
	"github.com/you/hrflowsvc/internal/obs"
	"github.com/you/hrflowsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	AccountRepo domain.AccountRepository
	TokenRepo   domain.RefreshTokenRepository
	RequestRepo domain.RequestRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Mailer      domain.Mailer
	Limiter     domain.LoginLimiter
	Audit       domain.AuditLogger
	SessionSvc  domain.SessionService
	AccountSvc  domain.AccountService
	WorkflowSvc domain.WorkflowService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	gdb, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(gdb, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.DB = gdb
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}
	c.RedisClient = rdb
	return nil
}

func (c *Container) initRepositories() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)
	c.TokenRepo = repositories.NewRefreshTokenRepository(c.DB)
	c.RequestRepo = repositories.NewRequestRepository(c.DB)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	c.Mailer = notifications.NewSMTPService(c.Config.SMTPHost, c.Config.SMTPPort,
		c.Config.SMTPUsername, c.Config.SMTPPassword, c.Config.SMTPFrom)
	c.Limiter = services.NewLoginLimiter(c.RedisClient, services.LimiterConfig{
		MaxAttempts: c.Config.LoginMaxAttempts,
		Window:      c.Config.LoginAttemptWindow,
	})
	c.Audit = obs.NewAuditLogger()

	c.SessionSvc = services.NewSessionService(c.AccountRepo, c.TokenRepo, c.PasswordSvc,
		c.TokenSvc, c.Limiter, c.Audit, services.SessionConfig{
			AccessTTL:  c.Config.AccessTTL,
			RefreshTTL: c.Config.RefreshTTL,
		})
	c.AccountSvc = services.NewAccountService(c.AccountRepo, c.PasswordSvc, c.Mailer, c.Audit)
	c.WorkflowSvc = services.NewWorkflowService(c.RequestRepo, c.Audit)
}
