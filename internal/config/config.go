package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort         string
	DatabasePath       string
	FrontendURL        string
	StaticDir          string
	SessionKey         string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	EnableHSTS         bool
	ServerDebugMode    bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./travel_guide.db"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		StaticDir:          getEnv("STATIC_DIR", "./static"),
		SessionKey:         getEnv("SESSION_KEY", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URI", ""),
		EnableHSTS:         getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode:    getEnvBool("SERVER_DEBUG_MODE", false),
	}

	// Refusing to start without a session key beats silently signing
	// cookies with an empty secret.
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("SESSION_KEY is required")
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	if cfg.GoogleRedirectURL == "" {
		return nil, fmt.Errorf("GOOGLE_REDIRECT_URI is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
