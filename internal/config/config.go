package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting. It is built once in main
// and handed to the services that need it; business logic never reads the
// environment directly.
type Config struct {
	Port        string
	Environment string // "development" or "production"

	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string

	JWTSecret string
	JWTExpiry time.Duration

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioSMSFrom    string

	CORSOrigins string
}

// Load reads .env (when present) and assembles the Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			log.Println("no .env file found - using environment variables")
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "bharatwheels"),
		DBPort: getEnv("DB_PORT", "5432"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioSMSFrom:    os.Getenv("TWILIO_SMS_FROM"),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-do-not-use"
	}

	expiry := getEnv("JWT_EXPIRY", "72h")
	d, err := time.ParseDuration(expiry)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY %q: %w", expiry, err)
	}
	cfg.JWTExpiry = d

	return cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
