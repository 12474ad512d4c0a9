package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string

	// Blob storage
	S3Bucket   string
	S3Region   string
	S3Endpoint string // optional, for S3-compatible stores

	SignedURLTTL time.Duration

	// Checkout lease; 0 disables expiry and locks are held until
	// released or force-cleared
	LockLease time.Duration

	// Expiry sweeper
	SweepInterval time.Duration

	// ReminderPolicyPath points to an optional YAML reminder policy file;
	// empty means the built-in defaults
	ReminderPolicyPath string

	// LogDir enables file logging alongside stdout when non-empty
	LogDir string

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWKSURL:            getEnv("JWKS_URL", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        getTablePrefix(env),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Region:           getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		SignedURLTTL:       getDuration("SIGNED_URL_TTL", 15*time.Minute),
		LockLease:          getDuration("LOCK_LEASE", 24*time.Hour),
		SweepInterval:      getDuration("SWEEP_INTERVAL", time.Hour),
		ReminderPolicyPath: getEnv("REMINDER_POLICY_FILE", ""),
		LogDir:             getEnv("LOG_DIR", ""),
		Debug:              getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// Bare numbers are hours
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Hour
	}
	return defaultValue
}
