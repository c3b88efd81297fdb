package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultJWTSecret = "dev-secret-change"
)

type Config struct {
	Port        string `yaml:"port"`
	Env         string `yaml:"env"`
	StoreDriver string `yaml:"store_driver"`
	DatabaseURL string `yaml:"database_url"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTIssuer string        `yaml:"jwt_issuer"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	BcryptCost           int  `yaml:"bcrypt_cost"`
	AllowLegacyPasswords bool `yaml:"allow_legacy_passwords"`

	CORSOrigins     []string      `yaml:"cors_origins"`
	BodyLimit       int           `yaml:"body_limit"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Pagination Pagination `yaml:"pagination"`
	Bootstrap  Bootstrap  `yaml:"bootstrap"`
}

// Bootstrap names an admin account ensured at startup. Empty email disables it.
type Bootstrap struct {
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
	AdminName     string `yaml:"admin_name"`
}

type Pagination struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:                 "3001",
		Env:                  EnvDevelopment,
		StoreDriver:          DriverPostgres,
		AutoMigrate:          true,
		JWTSecret:            defaultJWTSecret,
		JWTIssuer:            "volcano-blog",
		JWTTTL:               7 * 24 * time.Hour,
		BcryptCost:           12,
		AllowLegacyPasswords: true,
		CORSOrigins:          []string{"http://localhost:5173", "http://localhost:5174"},
		BodyLimit:            5 * 1024 * 1024,
		ShutdownTimeout:      10 * time.Second,
		Pagination:           Pagination{DefaultLimit: 10, MaxLimit: 100},
		Bootstrap:            Bootstrap{AdminName: "Admin"},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (optionally from .env). Environment
// variables win.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Env = strings.ToLower(getEnv("APP_ENV", c.Env))
	c.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", c.StoreDriver))
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.Bootstrap.AdminEmail = getEnv("ADMIN_EMAIL", c.Bootstrap.AdminEmail)
	c.Bootstrap.AdminPassword = getEnv("ADMIN_PASSWORD", c.Bootstrap.AdminPassword)
	c.Bootstrap.AdminName = getEnv("ADMIN_NAME", c.Bootstrap.AdminName)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	collect(envDuration("JWT_TTL", &c.JWTTTL))
	collect(envDuration("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout))
	collect(envInt("BODY_LIMIT", &c.BodyLimit))
	collect(envInt("BCRYPT_COST", &c.BcryptCost))
	collect(envInt("PAGINATION_DEFAULT_LIMIT", &c.Pagination.DefaultLimit))
	collect(envInt("PAGINATION_MAX_LIMIT", &c.Pagination.MaxLimit))
	collect(envBool("AUTH_ALLOW_LEGACY_PASSWORDS", &c.AllowLegacyPasswords))
	collect(envBool("AUTO_MIGRATE", &c.AutoMigrate))
	return errors.Join(errs...)
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Env {
	case EnvDevelopment, EnvProduction, "test":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be development, production or test, got %q", c.Env))
	}
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be postgres or memory, got %q", c.StoreDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.Env == EnvProduction && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Pagination.DefaultLimit < 1 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		errs = append(errs, fmt.Errorf("pagination limits must satisfy 1 <= default (%d) <= max (%d)",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit))
	}
	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set"))
	}
	if c.BodyLimit <= 0 {
		errs = append(errs, errors.New("BODY_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
