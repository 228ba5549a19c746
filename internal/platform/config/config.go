package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret      = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer      = "folio-ledger"
	defaultLockTimeout    = 5 * time.Second
	defaultRateLimit      = "300-M"
	defaultCurrency       = "USD"
	defaultMigrationsPath = "file://migrations"
	defaultDirectoryTTL   = 10 * time.Minute
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	// Redis backs the shared rate-limit counters and the job queue. Empty disables both.
	RedisAddr          string
	RateLimit          string
	CORSAllowedOrigins []string
	// DirectoryCacheTTL bounds how long guest and company lookups stay in Redis.
	DirectoryCacheTTL time.Duration

	// Cron specs for the background jobs, in asynq scheduler syntax.
	NightAuditCron     string
	IntegrityCheckCron string
	// PropertyIDs scheduled by the worker; each gets its own night audit and integrity check.
	PropertyIDs []string

	MigrationsPath  string
	DefaultCurrency string
	DBLockTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("RATE_LIMIT", defaultRateLimit)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("NIGHT_AUDIT_CRON", "0 3 * * *")
	viper.SetDefault("INTEGRITY_CHECK_CRON", "30 4 * * *")
	viper.SetDefault("PROPERTY_IDS", "")
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	viper.SetDefault("DEFAULT_CURRENCY", defaultCurrency)
	viper.SetDefault("DB_LOCK_TIMEOUT", defaultLockTimeout.String())
	viper.SetDefault("DIRECTORY_CACHE_TTL", defaultDirectoryTTL.String())

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	lockTimeoutStr := viper.GetString("DB_LOCK_TIMEOUT")
	lockTimeout, err := time.ParseDuration(lockTimeoutStr)
	if err != nil || lockTimeout < 0 {
		lockTimeout = defaultLockTimeout
		log.Printf("Warning: Invalid value for DB_LOCK_TIMEOUT ('%s'). Defaulting to %s.\n", lockTimeoutStr, lockTimeout)
	}
	cfg.DBLockTimeout = lockTimeout

	directoryTTLStr := viper.GetString("DIRECTORY_CACHE_TTL")
	directoryTTL, err := time.ParseDuration(directoryTTLStr)
	if err != nil || directoryTTL <= 0 {
		directoryTTL = defaultDirectoryTTL
		log.Printf("Warning: Invalid value for DIRECTORY_CACHE_TTL ('%s'). Defaulting to %s.\n", directoryTTLStr, directoryTTL)
	}
	cfg.DirectoryCacheTTL = directoryTTL

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_CURRENCY")))
	if len(cfg.DefaultCurrency) != 3 {
		log.Printf("Warning: Invalid value for DEFAULT_CURRENCY ('%s'). Defaulting to %s.\n", cfg.DefaultCurrency, defaultCurrency)
		cfg.DefaultCurrency = defaultCurrency
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.NightAuditCron = viper.GetString("NIGHT_AUDIT_CRON")
	cfg.IntegrityCheckCron = viper.GetString("INTEGRITY_CHECK_CRON")
	cfg.PropertyIDs = splitList(viper.GetString("PROPERTY_IDS"))
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Rate limits stay in process memory and background jobs are disabled.")
	}

	return cfg, nil
}

// splitList parses a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
