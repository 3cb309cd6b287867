package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	APIVersion   string
	ServiceName  string
	OTLPEndpoint string
	LogLevel     string

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	RateLimitRedisAddr   string
	TrustXForwardedFor   bool

	CacheTTL               time.Duration
	PaymentCompletionDelay time.Duration
	EmailFrom              string
}

// Load lê um .env opcional e depois as variáveis de ambiente.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv não sobrescreve variáveis já definidas no processo
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ Could not load %s: %v", f, err)
		}
	}

	return Config{
		Port:         getEnv("PORT", "3000"),
		APIVersion:   getEnv("API_VERSION", "1.0.0"),
		ServiceName:  getEnv("SERVICE_NAME", "commerce-api"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:     strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),

		RateLimitWindow:      getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMaxRequests: getInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitRedisAddr:   getEnv("RATE_LIMIT_REDIS_ADDR", ""),
		TrustXForwardedFor:   getBool("TRUST_X_FORWARDED_FOR", false),

		CacheTTL:               getDuration("CACHE_TTL", time.Hour),
		PaymentCompletionDelay: getDuration("PAYMENT_COMPLETION_DELAY", time.Second),
		EmailFrom:              getEnv("EMAIL_FROM", "noreply@api.example.com"),
	}
}

// Validate rejeita combinações que deixariam o servidor inutilizável.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if c.RateLimitMaxRequests <= 0 {
		return errors.New("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	if c.PaymentCompletionDelay < 0 {
		return errors.New("PAYMENT_COMPLETION_DELAY must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %t", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
