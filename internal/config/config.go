package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Origin  string `yaml:"origin"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type LoginLimiterConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	LoginLimiter LoginLimiterConfig `yaml:"login_limiter"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Casbin       CasbinConfig       `yaml:"casbin"`
}

type Config struct {
	Port               string
	GinMode            string
	AppOrigin          string
	DSN                string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	JWTIssuer          string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	LoginMaxAttempts   int
	LoginAttemptWindow time.Duration
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFrom           string
	CasbinModelPath    string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	window, err := time.ParseDuration(configFile.LoginLimiter.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid login limiter window: %w", err)
	}

	redisDB := configFile.Redis.DB
	if v := os.Getenv("REDIS_DB"); v != "" {
		redisDB, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}

	// Secrets come from the environment first so the yaml can ship without them.
	return &Config{
		Port:               env("PORT", fmt.Sprintf("%d", configFile.App.Port)),
		GinMode:            env("GIN_MODE", configFile.App.GinMode),
		AppOrigin:          env("APP_ORIGIN", configFile.App.Origin),
		DSN:                env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:          env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:      env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:            redisDB,
		JWTSecret:          env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:          configFile.JWT.Issuer,
		AccessTTL:          accTTL,
		RefreshTTL:         refTTL,
		LoginMaxAttempts:   configFile.LoginLimiter.MaxAttempts,
		LoginAttemptWindow: window,
		SMTPHost:           env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:           configFile.SMTP.Port,
		SMTPUsername:       env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword:       env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFrom:           env("SMTP_FROM", configFile.SMTP.From),
		CasbinModelPath:    configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
