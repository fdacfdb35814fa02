package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Shipping   ShippingConfig
	Newsletter NewsletterConfig
	Page       PageConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig holds cart persistence configuration
type StorageConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	CartKey  string        `mapstructure:"cart_key"`
	TTL      time.Duration `mapstructure:"ttl"` // 0 keeps carts forever

	// SessionIdle is how long an untouched session's cart stays in memory
	SessionIdle time.Duration `mapstructure:"session_idle"`
}

// ShippingConfig holds the flat-fee shipping rule
type ShippingConfig struct {
	FreeThreshold float64 `mapstructure:"free_threshold"`
	FlatFee       float64 `mapstructure:"flat_fee"`
}

// NewsletterConfig holds the upstream newsletter endpoint
type NewsletterConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PageConfig holds storefront page settings used for structured data
type PageConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP      int `mapstructure:"per_ip"`     // requests per minute
	Newsletter int `mapstructure:"newsletter"` // upstream calls per hour
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mcare/")

	v.SetEnvPrefix("MCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.cart_key", "mcare_cart_v1")
	v.SetDefault("storage.ttl", "0s")
	v.SetDefault("storage.session_idle", "30m")

	// Shipping defaults: free above 49 EUR, otherwise 4.90 EUR
	v.SetDefault("shipping.free_threshold", 49.0)
	v.SetDefault("shipping.flat_fee", 4.9)

	// Newsletter defaults
	v.SetDefault("newsletter.endpoint", "http://localhost:8081/api/newsletter")
	v.SetDefault("newsletter.timeout", "10s")

	// Page defaults
	v.SetDefault("page.base_url", "http://localhost:8080/")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.newsletter", 600)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storage.Type != "memory" && config.Storage.Type != "redis" {
		return fmt.Errorf("storage type must be 'memory' or 'redis', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "redis" && config.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when storage type is 'redis'")
	}

	if config.Storage.CartKey == "" {
		return fmt.Errorf("cart key must not be empty (set MCARE_STORAGE_CART_KEY)")
	}

	if config.Storage.SessionIdle <= 0 {
		return fmt.Errorf("storage.session_idle must be positive, got: %s", config.Storage.SessionIdle)
	}

	if config.Shipping.FreeThreshold < 0 || config.Shipping.FlatFee < 0 {
		return fmt.Errorf("shipping threshold and fee must be non-negative")
	}

	if config.Newsletter.Endpoint == "" {
		return fmt.Errorf("newsletter endpoint is required (set MCARE_NEWSLETTER_ENDPOINT)")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
