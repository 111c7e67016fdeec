package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	RedisURL        string // empty disables the shared cache tier
	CacheTTLSeconds int

	EmailProvider     string // "sendgrid" | "mailgun" | "resend" | anything else = generic
	EmailAPIURL       string
	EmailAPIKey       string
	EmailFrom         string
	EmailMaxRetries   int
	EmailRetryDelayMs int

	UserServiceBaseURL string

	BulkBatchSize int

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Notifications        string
	NotificationSettings string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Notifications:        getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			NotificationSettings: getEnv("DYNAMO_TABLE_NOTIFICATION_SETTINGS", "notification_settings"),
		},

		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 3600),

		EmailProvider:     getEnv("EMAIL_PROVIDER", "generic"),
		EmailAPIURL:       getEnv("EMAIL_API_URL", ""),
		EmailAPIKey:       getEnv("EMAIL_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", ""),
		EmailMaxRetries:   getEnvInt("EMAIL_MAX_RETRIES", 3),
		EmailRetryDelayMs: getEnvInt("EMAIL_RETRY_DELAY_MS", 1000),

		UserServiceBaseURL: getEnv("USER_SERVICE_BASE_URL", "http://localhost:4000"),

		BulkBatchSize: getEnvInt("BULK_BATCH_SIZE", 50),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
