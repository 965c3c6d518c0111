package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	AnthropicAPIKey       string
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// Optional with defaults
	DBPath      string
	HTTPPort    int
	Model       string
	Temperature float64
	CalendarID  string
	Timezone    string
	DevMode     bool

	// Email notification (optional)
	ResendAPIKey string
	EmailFrom    string
	NotifyEmail  string
}

func LoadFromEnv() *Config {
	cfg := &Config{
		// Required
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),

		// Optional with defaults
		DBPath:      getEnvOrDefault("SNAPCAL_DB_PATH", "./snapcal.db"),
		HTTPPort:    getEnvAsIntOrDefault("SNAPCAL_HTTP_PORT", 8080),
		Model:       getEnvOrDefault("SNAPCAL_MODEL", "claude-sonnet-4-20250514"),
		Temperature: getEnvAsFloatOrDefault("SNAPCAL_TEMPERATURE", 0.1),
		CalendarID:  getEnvOrDefault("SNAPCAL_CALENDAR_ID", "primary"),
		Timezone:    getEnvOrDefault("SNAPCAL_TIMEZONE", "UTC"),
		DevMode:     getEnvAsBoolOrDefault("SNAPCAL_DEV_MODE", false),

		// Email notification
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnvOrDefault("SNAPCAL_EMAIL_FROM", "snapcal@localhost"),
		NotifyEmail:  os.Getenv("SNAPCAL_NOTIFY_EMAIL"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
