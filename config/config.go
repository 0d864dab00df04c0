package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Vision    VisionConfig
	OCR       OCRConfig
	Cache     CacheConfig
	Grounding GroundingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadSize  int64    `mapstructure:"max_upload_size"`
}

// VisionConfig holds vision API configuration
type VisionConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OCRConfig holds Tesseract configuration
type OCRConfig struct {
	Languages []string `mapstructure:"languages"`
}

// CacheConfig holds extraction cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// GroundingConfig holds field grounding thresholds
type GroundingConfig struct {
	MinOverlap   float64 `mapstructure:"min_overlap"`
	MaxRunLength int     `mapstructure:"max_run_length"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	VisionPerHour int `mapstructure:"vision_per_hour"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ttb-label-verification/")

	// Environment variable settings
	v.SetEnvPrefix("TTBVERIFY")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_size", 10<<20) // 10 MiB

	// Vision defaults
	v.SetDefault("vision.base_url", "https://api.openai.com/v1")
	v.SetDefault("vision.model", "gpt-4o-mini")
	v.SetDefault("vision.timeout", "30s")

	// OCR defaults
	v.SetDefault("ocr.languages", []string{"eng"})

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Grounding defaults
	v.SetDefault("grounding.min_overlap", 0.5)
	v.SetDefault("grounding.max_run_length", 3)

	// Rate limit defaults
	v.SetDefault("ratelimit.vision_per_hour", 1000)
}

// validate validates the configuration. The vision API key is deliberately not
// required here; the server starts without it and verification degrades, which
// keeps OCR-only deployments possible.
func validate(config *Config) error {
	if config.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got: %d", config.Server.MaxUploadSize)
	}

	if config.Grounding.MinOverlap <= 0 || config.Grounding.MinOverlap > 1 {
		return fmt.Errorf("grounding min overlap must be in (0,1], got: %g", config.Grounding.MinOverlap)
	}

	if config.Grounding.MaxRunLength < 1 {
		return fmt.Errorf("grounding max run length must be at least 1, got: %d", config.Grounding.MaxRunLength)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if len(config.OCR.Languages) == 0 {
		return fmt.Errorf("at least one OCR language is required")
	}

	return nil
}
