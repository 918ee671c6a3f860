package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Blacklist BlacklistConfig
	CORS      CORSConfig
	Scheduler SchedulerConfig
	Seed      SeedConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database configuration.
// URL takes precedence over the individual fields when set.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string
	Format string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	URL string
}

// BlacklistConfig selects the token revocation store: "memory" or "redis"
type BlacklistConfig struct {
	Driver string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	BillingCronExpression string
	OverdueCronExpression string
	AutoGenerate          bool
	DefaultAmount         float64
	DefaultDescription    string
	DueDay                int
}

// SeedConfig holds the bootstrap super admin credentials
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// Load reads the environment (and .env when present) and validates the result
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "5000"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     parseEnv("DB_PORT", 5432, strconv.Atoi),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "residence"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    parseEnv("JWT_TTL", 7*24*time.Hour, time.ParseDuration),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Blacklist: BlacklistConfig{
			Driver: strings.ToLower(getEnv("TOKEN_BLACKLIST_DRIVER", "memory")),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Scheduler: SchedulerConfig{
			BillingCronExpression: getEnv("BILLING_CRON_EXPRESSION", "0 0 0 1 * *"),
			OverdueCronExpression: getEnv("OVERDUE_CRON_EXPRESSION", "0 30 0 * * *"),
			AutoGenerate:          parseEnv("BILLING_AUTO_GENERATE", false, strconv.ParseBool),
			DefaultAmount:         parseEnv("BILLING_DEFAULT_AMOUNT", 0.0, parseFloat),
			DefaultDescription:    getEnv("BILLING_DEFAULT_DESCRIPTION", "Monthly maintenance"),
			DueDay:                parseEnv("BILLING_DUE_DAY", 10, strconv.Atoi),
		},
		Seed: SeedConfig{
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	switch c.Blacklist.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported TOKEN_BLACKLIST_DRIVER %q", c.Blacklist.Driver)
	}
	if c.Scheduler.DueDay < 1 || c.Scheduler.DueDay > 28 {
		return fmt.Errorf("BILLING_DUE_DAY must be between 1 and 28")
	}
	return nil
}

// GetDSN builds the postgres DSN gorm opens with
func (d *DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// AllowedOriginList splits the comma separated origin list
func (c *CORSConfig) AllowedOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseEnv returns fallback when key is unset or does not parse
func parseEnv[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
