package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "supersecretkey"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpire is the session token lifetime (default 1h). Set via JWT_EXPIRE_MINUTES.
	JWTExpire time.Duration

	// BcryptCost is the bcrypt work factor for password hashing. Set via BCRYPT_COST.
	BcryptCost int

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// UploadDir is where uploaded images are stored on disk.
	UploadDir string
	// UploadMaxBytes caps the size of a single upload (default 8 MiB).
	UploadMaxBytes int64
	// UploadCleanupCron is the cron expression for the orphaned-upload sweep.
	// Empty disables the sweep.
	UploadCleanupCron string
	// UploadCleanupAge is how old an unreferenced file must be before removal.
	UploadCleanupAge time.Duration

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent.
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "scribedb"),
		DBUser: getEnv("DB_USER", "scribe"),
		DBPass: getEnv("DB_PASS", "scribe"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpire: time.Duration(getEnvInt("JWT_EXPIRE_MINUTES", 60)) * time.Minute,

		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		Env: getEnv("ENV", "dev"),

		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes:    int64(getEnvInt("UPLOAD_MAX_BYTES", 8<<20)),
		UploadCleanupCron: getEnv("UPLOAD_CLEANUP_CRON", "@hourly"),
		UploadCleanupAge:  time.Duration(getEnvInt("UPLOAD_CLEANUP_AGE_MINUTES", 24*60)) * time.Minute,

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validate rejects configurations that must not reach production,
// in particular the built-in JWT secret.
func (c Config) Validate() error {
	if c.Env == "prod" && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when ENV=prod")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
