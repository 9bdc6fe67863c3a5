package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	GeminiTimeout        time.Duration

	// Transcripts
	TranscriptTimeout   time.Duration
	TranscriptLanguages []string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Redis (optional: progress events, websocket, async jobs)
	RedisURL    string
	WorkerCount int

	// Feedback
	FeedbackPath string

	// Frontend
	FrontendURL string

	GenerateRateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:         mustGetEnvAny("GOOGLE_API_KEY", "GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 4),
		GeminiTimeout:        time.Duration(getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
		TranscriptTimeout:    time.Duration(getEnvAsIntOrDefault("TRANSCRIPT_TIMEOUT_SECONDS", 30)) * time.Second,
		TranscriptLanguages:  getEnvAsListOrDefault("TRANSCRIPT_LANGUAGES", []string{"en", "en-US", "en-GB"}),
		SessionSecret:        mustGetEnv("SESSION_SECRET"),
		SessionTTL:           time.Duration(getEnvAsIntOrDefault("SESSION_TTL_MINUTES", 720)) * time.Minute,
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		WorkerCount:          getEnvAsIntOrDefault("WORKER_COUNT", 3),
		FeedbackPath:         getEnvOrDefault("FEEDBACK_PATH", "./feedback.txt"),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		GenerateRateLimit:    getEnvAsIntOrDefault("GENERATE_RATE_LIMIT", 10),
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

// mustGetEnvAny returns the first non-empty value among keys.
func mustGetEnvAny(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	panic(fmt.Sprintf("required environment variable %s is not set", strings.Join(keys, " or ")))
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
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
