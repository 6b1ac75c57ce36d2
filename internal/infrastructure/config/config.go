// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Flight search providers
const (
	FlightProviderSerpAPI = "serpapi"
	FlightProviderAmadeus = "amadeus"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Planning service
	OpenAIAPIKey   string
	LLMModel       string
	LLMBaseURL     string
	LLMTemperature float64

	// Flight search
	FlightProvider       string
	FlightOptionsPerLeg  int
	FlightSearchRate     float64
	FlightSearchBurst    int
	FlightSearchParallel int
	SerpAPIKey           string
	SerpAPIBaseURL       string
	AmadeusClientID      string
	AmadeusClientSecret  string
	AmadeusBaseURL       string

	// Image generation
	GetImgAPIKey  string
	GetImgBaseURL string

	// PostgreSQL airport reference data
	PostgresURI string

	// MongoDB stage journal
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// HTTP collaborators
	HTTPClientTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 300)) * time.Second,

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL:     getEnv("LLM_BASE_URL", ""),
		LLMTemperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),

		FlightProvider:       strings.ToLower(getEnv("FLIGHT_PROVIDER", FlightProviderSerpAPI)),
		FlightOptionsPerLeg:  getEnvAsInt("FLIGHT_OPTIONS_PER_LEG", 5),
		FlightSearchRate:     getEnvAsFloat("FLIGHT_SEARCH_RATE", 2),
		FlightSearchBurst:    getEnvAsInt("FLIGHT_SEARCH_BURST", 2),
		FlightSearchParallel: getEnvAsInt("FLIGHT_SEARCH_PARALLEL", 4),
		SerpAPIKey:           getEnv("SERPAPI_KEY", ""),
		SerpAPIBaseURL:       getEnv("SERPAPI_BASE_URL", "https://serpapi.com"),
		AmadeusClientID:      getEnv("AMADEUS_CLIENT_ID", ""),
		AmadeusClientSecret:  getEnv("AMADEUS_CLIENT_SECRET", ""),
		AmadeusBaseURL:       getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),

		GetImgAPIKey:  getEnv("GETIMG_API_KEY", ""),
		GetImgBaseURL: getEnv("GETIMG_BASE_URL", "https://api.getimg.ai"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "tripplanner"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		HTTPClientTimeout: time.Duration(getEnvAsInt("HTTP_CLIENT_TIMEOUT", 60)) * time.Second,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that would otherwise fail later at first use
func (c *Config) Validate() error {
	switch c.FlightProvider {
	case FlightProviderSerpAPI, FlightProviderAmadeus:
	default:
		return fmt.Errorf("unknown FLIGHT_PROVIDER %q, expected %q or %q", c.FlightProvider, FlightProviderSerpAPI, FlightProviderAmadeus)
	}
	if c.FlightOptionsPerLeg < 1 {
		return fmt.Errorf("FLIGHT_OPTIONS_PER_LEG must be at least 1, got %d", c.FlightOptionsPerLeg)
	}
	if c.FlightSearchParallel < 1 {
		return fmt.Errorf("FLIGHT_SEARCH_PARALLEL must be at least 1, got %d", c.FlightSearchParallel)
	}
	if c.FlightSearchRate <= 0 {
		return fmt.Errorf("FLIGHT_SEARCH_RATE must be positive, got %v", c.FlightSearchRate)
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
