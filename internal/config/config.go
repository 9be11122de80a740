package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"codecanvas-backend/internal/models"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Sessions
	SessionSecret   string
	SessionTTLHours int

	// Gemini AI
	GeminiAPIKey         string
	GeminiConcurrentReqs int

	// Seed accounts, applied once when the users table is empty
	SeedUsers []models.SeedUser

	// Policy switches
	AllowEmptyResult bool
	ProtectGenerate  bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             mustGetEnv("REDIS_URL"),
		SessionSecret:        mustGetEnv("SESSION_SECRET"),
		SessionTTLHours:      getEnvAsIntOrDefault("SESSION_TTL_HOURS", 24),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		SeedUsers:            getEnvAsSeedUsers("SEED_USERS"),
		AllowEmptyResult:     getEnvAsBoolOrDefault("ALLOW_EMPTY_RESULT", true),
		ProtectGenerate:      getEnvAsBoolOrDefault("PROTECT_GENERATE", true),
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

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsSeedUsers(key string) []models.SeedUser {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var users []models.SeedUser
	if err := json.Unmarshal([]byte(val), &users); err != nil {
		panic(fmt.Sprintf("environment variable %s is not a valid seed user list: %v", key, err))
	}
	return users
}
