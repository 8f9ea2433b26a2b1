package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Backend API
	BackendURL            string
	BackendTimeoutSeconds int
	ChatStreamTimeoutSecs int

	// Redis (session store)
	RedisURL string

	// Session cookie
	SessionSecret   string
	SessionTTLHours int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Env:                   getEnvOrDefault("ENV", "development"),
		BackendURL:            mustGetEnv("BACKEND_URL"),
		BackendTimeoutSeconds: getEnvAsIntOrDefault("BACKEND_TIMEOUT_SECONDS", 30),
		ChatStreamTimeoutSecs: getEnvAsIntOrDefault("CHAT_STREAM_TIMEOUT_SECONDS", 120),
		RedisURL:              mustGetEnv("REDIS_URL"),
		SessionSecret:         mustGetEnv("SESSION_SECRET"),
		SessionTTLHours:       getEnvAsIntOrDefault("SESSION_TTL_HOURS", 24),
		FrontendURL:           getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
