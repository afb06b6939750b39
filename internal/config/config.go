package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "leadengage.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultRequestTimeout  = "10s"
	defaultInsertTimeout   = "30s"
	defaultImportLockTTL   = "60s"
	defaultImportLockWait  = "5s"
	defaultImportMaxRecord = "5000"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	// RequestTimeout bounds each external call made on behalf of a request:
	// token validation, profile lookup and every scoped query.
	RequestTimeout time.Duration
	InsertTimeout  time.Duration

	RedisURL         string
	ImportLockTTL    time.Duration
	ImportLockWait   time.Duration
	ImportMaxRecords int

	// LegacyKeyFields are added to the dedup identity whenever a tenant has them
	// configured, whether or not they are flagged unique.
	LegacyKeyFields []string

	LogLevel  string
	LogFormat string

	// CORSAllowedOrigins is a comma separated list added to the local dev origins.
	CORSAllowedOrigins string
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.LegacyKeyFields = parseListEnv("DEDUP_LEGACY_KEY_FIELDS")
	cfg.CORSAllowedOrigins = os.Getenv("CORS_ALLOWED_ORIGINS")

	var err error
	if cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.InsertTimeout, err = parseDurationEnv("INSERT_TIMEOUT", defaultInsertTimeout); err != nil {
		return nil, err
	}
	if cfg.ImportLockTTL, err = parseDurationEnv("IMPORT_LOCK_TTL", defaultImportLockTTL); err != nil {
		return nil, err
	}
	if cfg.ImportLockWait, err = parseDurationEnv("IMPORT_LOCK_WAIT", defaultImportLockWait); err != nil {
		return nil, err
	}
	if cfg.ImportMaxRecords, err = parseIntEnv("IMPORT_MAX_RECORDS", defaultImportMaxRecord); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.InsertTimeout <= 0 {
		return fmt.Errorf("INSERT_TIMEOUT must be > 0")
	}
	if cfg.ImportLockTTL < cfg.InsertTimeout {
		return fmt.Errorf("IMPORT_LOCK_TTL must be >= INSERT_TIMEOUT")
	}
	if cfg.ImportLockWait < 0 {
		return fmt.Errorf("IMPORT_LOCK_WAIT must be >= 0")
	}
	if cfg.ImportMaxRecords <= 0 {
		return fmt.Errorf("IMPORT_MAX_RECORDS must be > 0")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point to postgres")
		}
	}
	return nil
}

// IsProd reports whether the environment is production-like.
func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseListEnv(name string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(name), ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
