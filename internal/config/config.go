package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	SessionTTL         time.Duration
	AdminJWTSecret     string
	CORSAllowedOrigins []string

	// Per-conversation message rate limit (requests/sec and burst).
	AssistantRateLimit float64
	AssistantRateBurst int

	// Collaborator calls made by the assistant executor.
	CollaboratorTimeout   time.Duration
	DefaultSessionMinutes int

	// Payment links
	PaymentLinkBaseURL string
	PaymentCurrency    string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisTLS:              getEnvAsBool("REDIS_TLS", false),
		SessionTTL:            getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		AdminJWTSecret:        getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS"),
		AssistantRateLimit:    getEnvAsFloat("ASSISTANT_RATE_LIMIT", 2),
		AssistantRateBurst:    getEnvAsInt("ASSISTANT_RATE_BURST", 5),
		CollaboratorTimeout:   getEnvAsDuration("COLLABORATOR_TIMEOUT", 10*time.Second),
		DefaultSessionMinutes: getEnvAsInt("DEFAULT_SESSION_MINUTES", 60),
		PaymentLinkBaseURL:    strings.TrimRight(getEnv("PAYMENT_LINK_BASE_URL", "https://pay.coachflow.app/l"), "/"),
		PaymentCurrency:       strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR")),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "CoachFlow"),
	}
}

// UsePostgres reports whether a database is configured; otherwise the in-memory store is used.
func (c *Config) UsePostgres() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// UseRedis reports whether assistant sessions should be kept in redis.
func (c *Config) UseRedis() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
