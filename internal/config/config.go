package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	PayUModeTest       = "test"
	PayUModeProduction = "production"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string

	// PayU gateway configuration
	PayU PayU
	// ResultRedirectURL is the client page that renders the payment outcome.
	// When empty the gateway result endpoints answer with JSON.
	ResultRedirectURL string

	// Identity configuration
	JWTSecret   string
	AdminEmails []string

	// Redis configuration, empty address keeps callback markers in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SMTP configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	// Notification configuration
	TelegramBotToken string
}

// PayU holds the merchant credentials and callback URLs for the hosted checkout.
type PayU struct {
	MerchantKey  string
	MerchantSalt string
	Mode         string
	SuccessURL   string
	FailureURL   string
	// AllowUnverifiedSuccess honours a literal "success" status when the
	// response hash does not match. The transaction is flagged hash_verified=false.
	AllowUnverifiedSuccess bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "paydesk"),

		PayU: PayU{
			MerchantKey:            getEnv("PAYU_MERCHANT_KEY", ""),
			MerchantSalt:           getEnv("PAYU_MERCHANT_SALT", ""),
			Mode:                   getEnv("PAYU_MODE", PayUModeTest),
			SuccessURL:             getEnv("PAYU_SUCCESS_URL", "http://localhost:6532/payment/success"),
			FailureURL:             getEnv("PAYU_FAILURE_URL", "http://localhost:6532/payment/failure"),
			AllowUnverifiedSuccess: getEnvAsBool("PAYU_ALLOW_UNVERIFIED_SUCCESS", false),
		},
		ResultRedirectURL: getEnv("RESULT_REDIRECT_URL", ""),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		AdminEmails: getEnvAsList("ADMIN_EMAILS"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPSender:       getEnv("SMTP_SENDER", ""),

		APIPort: getEnvAsInt("API_PORT", 6532),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.PayU.MerchantKey == "" {
		return fmt.Errorf("PAYU_MERCHANT_KEY is required")
	}

	if c.PayU.MerchantSalt == "" {
		return fmt.Errorf("PAYU_MERCHANT_SALT is required")
	}

	if c.PayU.Mode != PayUModeTest && c.PayU.Mode != PayUModeProduction {
		return fmt.Errorf("invalid PAYU_MODE %q: expected %q or %q", c.PayU.Mode, PayUModeTest, PayUModeProduction)
	}

	if c.PayU.SuccessURL == "" || c.PayU.FailureURL == "" {
		return fmt.Errorf("PAYU_SUCCESS_URL and PAYU_FAILURE_URL are required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	return nil
}

// EmailEnabled reports whether enough SMTP settings are present to send mail.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPSender != ""
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, lowercasing and dropping empty items.
func getEnvAsList(name string) []string {
	valueStr, exists := os.LookupEnv(name)
	if !exists {
		return nil
	}
	var values []string
	for _, item := range strings.Split(valueStr, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			values = append(values, item)
		}
	}
	return values
}
