package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultToolEndpointPaths are the path suffixes tried, in order, against the tool server.
var DefaultToolEndpointPaths = []string{"/tools/call", "/call", "/mcp/tools/call", "/api/tools/call"}

// Config holds all configuration parameters
type Config struct {
	Port           string
	LogLevel       string
	APIKey         string
	RateLimitRPS   int
	RateLimitBurst int

	ForecastAPIURL     string
	GeocodingAPIURL    string
	WeatherTimezone    string
	ProviderTimeoutSec int
	ProviderRatePerMin int

	ToolServerURL      string
	ToolEndpointPaths  []string
	ToolCallTimeoutSec int
	// BreakerMaxFailures of zero disables the per-endpoint breakers.
	BreakerMaxFailures int
	BreakerCooldownSec int

	RedisAddr         string
	CacheTTLMinutes   int
	SessionTTLMinutes int
	HistoryLimit      int

	OpenAIApiKey string
	OpenAIModel  string

	RetryMaxAttempts int
	RetryBaseDelayMs int
	RetryMaxDelayMs  int
}

// Load loads configuration from environment variables and .env file
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	port := getEnv("PORT", "3001")

	config := &Config{
		Port:           port,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIKey:         getEnv("API_KEY", ""),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		ForecastAPIURL:     getEnv("FORECAST_API_URL", "https://api.open-meteo.com/v1/forecast"),
		GeocodingAPIURL:    getEnv("GEOCODING_API_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		WeatherTimezone:    getEnv("WEATHER_TIMEZONE", "Europe/Istanbul"),
		ProviderTimeoutSec: getEnvInt("PROVIDER_TIMEOUT_SEC", 10),
		ProviderRatePerMin: getEnvInt("PROVIDER_RATE_PER_MIN", 600),

		ToolServerURL:      getEnv("TOOL_SERVER_URL", "http://localhost:"+port),
		ToolEndpointPaths:  getEnvList("TOOL_ENDPOINT_PATHS", DefaultToolEndpointPaths),
		ToolCallTimeoutSec: getEnvInt("TOOL_CALL_TIMEOUT_SEC", 15),
		BreakerMaxFailures: getEnvInt("BREAKER_MAX_FAILURES", 0),
		BreakerCooldownSec: getEnvInt("BREAKER_COOLDOWN_SEC", 30),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		CacheTTLMinutes:   getEnvInt("CACHE_TTL_MINUTES", 10),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 60),
		HistoryLimit:      getEnvInt("HISTORY_LIMIT", 20),

		OpenAIApiKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		RetryMaxAttempts: getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelayMs: getEnvInt("RETRY_BASE_DELAY_MS", 500),
		RetryMaxDelayMs:  getEnvInt("RETRY_MAX_DELAY_MS", 5000),
	}

	if config.OpenAIApiKey == "" {
		log.Printf("Warning: OPENAI_API_KEY not set, replies use the plain weather text")
	}

	return config
}

// ProviderTimeout is the per-request timeout for Open-Meteo calls.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSec) * time.Second
}

// ToolCallTimeout is the per-attempt timeout of the endpoint cascade.
func (c *Config) ToolCallTimeout() time.Duration {
	return time.Duration(c.ToolCallTimeoutSec) * time.Second
}

// CacheTTL is how long weather snapshots stay cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// SessionTTL is the idle expiry for chat histories.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// getEnvInt gets environment variable as integer with fallback
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
		log.Printf("Warning: invalid integer value for %s: %s, using default: %d", key, value, fallback)
	}
	return fallback
}

// getEnvList reads a comma separated list, dropping empty items
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), fallback...)
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		log.Printf("Warning: %s is empty, using default: %v", key, fallback)
		return append([]string(nil), fallback...)
	}
	return items
}
