package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Triage   TriageConfig
	Places   PlacesConfig
	Location LocationConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	StaticDir      string
	AllowedOrigins string
}

// TriageConfig holds chat-completion provider configuration
type TriageConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// PlacesConfig holds places-search provider configuration
type PlacesConfig struct {
	Provider     string
	GeoapifyKey  string
	GoogleKey    string
	BaseURL      string
	RadiusMeters int
	Limit        int
	Timeout      time.Duration
}

// LocationConfig holds the fallback origin used when a client sends no reading
type LocationConfig struct {
	DefaultLatitude  float64
	DefaultLongitude float64
	HasDefault       bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	location, err := loadLocation()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PORT", 5000),
			Env:            getEnv("APP_ENV", "production"),
			StaticDir:      getEnv("STATIC_DIR", "client"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Triage: TriageConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			Model:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
			BaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Timeout: getEnvAsSeconds("TRIAGE_TIMEOUT_SECONDS", 20*time.Second),
		},
		Places: PlacesConfig{
			Provider:     getEnv("PLACES_PROVIDER", "geoapify"),
			GeoapifyKey:  getEnv("GEOAPIFY_API_KEY", ""),
			GoogleKey:    getEnv("GOOGLE_PLACES_API_KEY", ""),
			BaseURL:      getEnv("PLACES_BASE_URL", ""),
			RadiusMeters: getEnvAsInt("PLACES_RADIUS_METERS", 5000),
			Limit:        getEnvAsInt("PLACES_LIMIT", 5),
			Timeout:      getEnvAsSeconds("PLACES_TIMEOUT_SECONDS", 8*time.Second),
		},
		Location: location,
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "emergency-assist"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PlacesAPIKey returns the key for the configured places provider
func (c *PlacesConfig) PlacesAPIKey() string {
	switch c.Provider {
	case "google":
		return c.GoogleKey
	case "geoapify":
		return c.GeoapifyKey
	default:
		return ""
	}
}

// RequiresAPIKey reports whether the configured places provider authenticates
func (c *PlacesConfig) RequiresAPIKey() bool {
	return c.Provider == "geoapify" || c.Provider == "google"
}

// The fallback point is all-or-nothing: setting only one coordinate is a
// configuration error rather than a silent zero.
func loadLocation() (LocationConfig, error) {
	latStr := os.Getenv("DEFAULT_LATITUDE")
	lonStr := os.Getenv("DEFAULT_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return LocationConfig{}, nil
	}
	if latStr == "" || lonStr == "" {
		return LocationConfig{}, fmt.Errorf("DEFAULT_LATITUDE and DEFAULT_LONGITUDE must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return LocationConfig{}, fmt.Errorf("invalid DEFAULT_LATITUDE %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return LocationConfig{}, fmt.Errorf("invalid DEFAULT_LONGITUDE %q", lonStr)
	}

	return LocationConfig{
		DefaultLatitude:  lat,
		DefaultLongitude: lon,
		HasDefault:       true,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
