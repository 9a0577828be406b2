package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecretKey  string
	ServerPort    int
	WebhookSecret string

	// ExpirySweepInterval is how often the scheduler sweeps overdue matches.
	ExpirySweepInterval time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present, for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	sweepInterval := time.Minute
	if intervalStr := os.Getenv("EXPIRY_SWEEP_INTERVAL"); intervalStr != "" {
		sweepInterval, err = time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid EXPIRY_SWEEP_INTERVAL environment variable: %w", err)
		}
		if sweepInterval <= 0 {
			return nil, fmt.Errorf("EXPIRY_SWEEP_INTERVAL must be positive, got %v", sweepInterval)
		}
	}

	return &Config{
		DatabaseURL:         dbURL,
		JWTSecretKey:        jwtKey,
		ServerPort:          port,
		WebhookSecret:       os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		ExpirySweepInterval: sweepInterval,
		R2AccountID:         os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:       os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:   os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:        os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:     os.Getenv("R2_PUBLIC_BASE_URL"),
	}, nil
}
