package config

import "os"

// Config holds the server configuration loaded from the environment.
type Config struct {
	Port          string
	GinMode       string
	DataDir       string
	DatabaseURL   string
	OpenRouterKey string
	AIModel       string
	AIBaseURL     string
}

// Load reads configuration from environment variables, applying defaults
// where a variable is unset.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8082"),
		GinMode:       getEnv("GIN_MODE", ""),
		DataDir:       getEnv("DATA_DIR", "data"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		OpenRouterKey: getEnv("OPENROUTER_API_KEY", ""),
		AIModel:       getEnv("AI_MODEL", "google/gemini-2.0-flash-001"),
		AIBaseURL:     getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
