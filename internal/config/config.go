package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	HTTPPort string

	TelegramAppID    int
	TelegramAppHash  string
	TelegramBotToken string
	BotDomain        string // public URL of the callback server, embedded in ad links

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	StagingBucket  string // empty disables S3 media staging
	EventsTopicARN string // empty disables monetization event publishing

	AdAPIURL       string
	AdPublisherID  string
	AdWidgetID     string
	AdProduction   bool
	AdLandingURL   string // ad landing page the user is sent to with their session
	AdFallbackLink string // static offer shown when the ad network is unavailable
	AdCooldown     time.Duration

	AdminJWTSecret string
	JWTExpiryHours int

	AllowedOrigins []string // CORS allowed origins for the landing-page callback
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	AdSessions        string
	VerificationCodes string
	Users             string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "3000"),

		TelegramAppID:    getEnvInt("TELEGRAM_APP_ID", 0),
		TelegramAppHash:  getEnv("TELEGRAM_APP_HASH", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotDomain:        getEnv("BOT_DOMAIN", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			AdSessions:        getEnv("DYNAMO_TABLE_AD_SESSIONS", "ad_sessions"),
			VerificationCodes: getEnv("DYNAMO_TABLE_VERIFICATION_CODES", "verification_codes"),
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
		},
		StagingBucket:  getEnv("S3_STAGING_BUCKET", ""),
		EventsTopicARN: getEnv("SNS_EVENTS_TOPIC_ARN", ""),

		AdAPIURL:       getEnv("AD_API_URL", ""),
		AdPublisherID:  getEnv("AD_PUBLISHER_ID", ""),
		AdWidgetID:     getEnv("AD_WIDGET_ID", ""),
		AdProduction:   getEnvBool("AD_PRODUCTION", true),
		AdLandingURL:   getEnv("AD_LANDING_URL", ""),
		AdFallbackLink: getEnv("AD_FALLBACK_LINK", ""),
		AdCooldown:     getEnvDuration("AD_COOLDOWN", 5*time.Minute),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),

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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
