package config

import (
	"fmt"
	"os"
)

// Config holds all runtime configuration, read once at startup and passed
// down explicitly. No package reads the environment after Load returns.
type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	ClientOrigin string
	LogLevel     string

	AWS AWSConfig
}

// AWSConfig holds the attachment storage (S3) configuration
type AWSConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for S3-compatible providers
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ClientOrigin: getEnv("CLIENT_URL", "http://localhost:5173"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		AWS: AWSConfig{
			Region:    getEnv("AWS_REGION", "us-east-1"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
