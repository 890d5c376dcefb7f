package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Environment string
	Port        string

	// Storage backend: "postgres" or "memory"
	StorageBackend string
	DatabaseURL    string

	// Security
	AdminToken string

	// CORS
	AllowedOrigins string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("APP_ENV", "development"),
		Port:           getEnv("APP_PORT", "5000"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendPostgres)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
	}
	// no database to talk to: run on the in-memory backend
	if cfg.DatabaseURL == "" {
		cfg.StorageBackend = BackendMemory
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
