package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIKeyEnv is the environment variable holding the Gemini API key
const APIKeyEnv = "GEMINI_API_KEY"

// Config holds all configuration for the application
type Config struct {
	Environment  string
	Port         string
	LogLevel     string
	MaxBodyBytes int64
	Gemini       GeminiConfig
	CORS         CORSConfig
}

// GeminiConfig holds upstream generative API configuration
type GeminiConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// CORSConfig holds cross-origin response header configuration
type CORSConfig struct {
	AllowedOrigin  string
	AllowedHeaders string
	AllowedMethods []string
}

// KeySource returns the current API key, or an empty string when unset
type KeySource func() string

// EnvKeySource reads the API key from the process environment on every call
func EnvKeySource() string {
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "POST, OPTIONS")

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("GEMINI_TIMEOUT")))
	if err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("GEMINI_TIMEOUT must be positive, got %s", timeout)
	}

	model := strings.TrimSpace(v.GetString("GEMINI_MODEL"))
	if model == "" {
		return nil, fmt.Errorf("GEMINI_MODEL cannot be empty")
	}

	config := &Config{
		Environment:  v.GetString("ENVIRONMENT"),
		Port:         v.GetString("PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		MaxBodyBytes: v.GetInt64("MAX_BODY_BYTES"),
		Gemini: GeminiConfig{
			BaseURL: strings.TrimRight(v.GetString("GEMINI_API_BASE_URL"), "/"),
			Model:   model,
			Timeout: timeout,
		},
		CORS: CORSConfig{
			AllowedOrigin:  v.GetString("CORS_ALLOWED_ORIGIN"),
			AllowedHeaders: "Content-Type",
			AllowedMethods: ParseMethods(v.GetString("CORS_ALLOWED_METHODS")),
		},
	}

	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 1 << 20
	}

	return config, nil
}

// ParseMethods splits a comma separated method list, upper-casing each entry
// and making sure OPTIONS is always present for preflight requests
func ParseMethods(raw string) []string {
	var methods []string
	seen := make(map[string]bool)
	for _, m := range strings.Split(raw, ",") {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		methods = append(methods, m)
	}
	if !seen["OPTIONS"] {
		methods = append(methods, "OPTIONS")
	}
	return methods
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
