package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the compliance engine.
type Config struct {
	Server struct {
		Port         int
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}
	RateLimit struct {
		RequestsPerSecond float64
		Burst             int
		ExpirationTTL     time.Duration
	}
	JWT struct {
		Secret          string
		ExpirationHours int
	}
	Logging struct {
		Level  string
		Format string
		Output string
	}
	Data struct {
		OntologyPath        string
		DynamicOntologyPath string
		RestrictionsPath    string
		UnknownLogPath      string
	}
	ExternalAPI struct {
		USDAFDCAPIKey        string
		OpenFoodFactsEnabled bool
		Timeout              time.Duration
		CacheTTL             time.Duration
		CacheMaxEntries      int
	}
	LLM struct {
		OllamaURL       string
		OllamaModel     string
		IntentTimeout   time.Duration
		ResponseTimeout time.Duration
	}
	Redis struct {
		Addr string
		TTL  time.Duration
	}
	AWS struct {
		SecretsID string
	}
}

// NewConfig creates a new Config populated from the environment, falling
// back to defaults for anything unset.
func NewConfig() *Config {
	cfg := &Config{}

	cfg.Server.Port = getEnvIntOrDefault("SERVER_PORT", 8080)
	cfg.Server.ReadTimeout = getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	cfg.Server.WriteTimeout = getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 10*time.Second)

	cfg.RateLimit.RequestsPerSecond = getEnvFloatOrDefault("RATE_LIMIT_REQUESTS", 5.0)
	cfg.RateLimit.Burst = getEnvIntOrDefault("RATE_LIMIT_BURST", 10)
	cfg.RateLimit.ExpirationTTL = getEnvDurationOrDefault("RATE_LIMIT_EXPIRATION", time.Hour)

	cfg.JWT.Secret = getEnvOrDefault("JWT_SECRET", "dev-secret-change-me")
	cfg.JWT.ExpirationHours = getEnvIntOrDefault("JWT_EXPIRATION_HOURS", 24)

	cfg.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
	cfg.Logging.Output = getEnvOrDefault("LOG_OUTPUT", "stdout")

	cfg.Data.OntologyPath = getEnvOrDefault("ONTOLOGY_PATH", "data/ontology.json")
	cfg.Data.DynamicOntologyPath = getEnvOrDefault("DYNAMIC_ONTOLOGY_PATH", "data/dynamic_ontology.json")
	cfg.Data.RestrictionsPath = getEnvOrDefault("RESTRICTIONS_PATH", "data/restrictions.json")
	cfg.Data.UnknownLogPath = getEnvOrDefault("UNKNOWN_LOG_PATH", "data/unknown_ingredients_log.json")

	cfg.ExternalAPI.USDAFDCAPIKey = getEnvOrDefault("USDA_FDC_API_KEY", "")
	cfg.ExternalAPI.OpenFoodFactsEnabled = getEnvBoolOrDefault("OPEN_FOOD_FACTS_ENABLED", true)
	cfg.ExternalAPI.Timeout = getEnvDurationOrDefault("EXTERNAL_API_TIMEOUT", 8*time.Second)
	cfg.ExternalAPI.CacheTTL = getEnvDurationOrDefault("EXTERNAL_API_CACHE_TTL", time.Hour)
	cfg.ExternalAPI.CacheMaxEntries = getEnvIntOrDefault("EXTERNAL_API_CACHE_MAX_ENTRIES", 500)

	cfg.LLM.OllamaURL = getEnvOrDefault("OLLAMA_API_URL", "")
	cfg.LLM.OllamaModel = getEnvOrDefault("OLLAMA_MODEL", "llama3")
	cfg.LLM.IntentTimeout = getEnvDurationOrDefault("LLM_INTENT_TIMEOUT", 5*time.Second)
	cfg.LLM.ResponseTimeout = getEnvDurationOrDefault("LLM_RESPONSE_TIMEOUT", 10*time.Second)

	cfg.Redis.Addr = getEnvOrDefault("REDIS_ADDR", "")
	cfg.Redis.TTL = getEnvDurationOrDefault("REDIS_CACHE_TTL", time.Hour)

	cfg.AWS.SecretsID = getEnvOrDefault("AWS_SECRETS_ID", "")

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// LoadConfig loads environment variables from a .env file, if present.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	return nil
}

// GetEnv retrieves the value of the environment variable named by key,
// or defaultValue if it is unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
