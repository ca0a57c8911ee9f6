// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port                string  `mapstructure:"PORT"`
	Env                 string  `mapstructure:"APP_ENV"`
	APIBaseURL          string  `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds   int     `mapstructure:"API_TIMEOUT_SECONDS"`
	SessionTTLHours     int     `mapstructure:"SESSION_TTL_HOURS"`
	CookieSecure        bool    `mapstructure:"COOKIE_SECURE"`
	LocalStoreDriver    string  `mapstructure:"LOCAL_STORE_DRIVER"`
	RedisURL            string  `mapstructure:"REDIS_URL"`
	DBDSN               string  `mapstructure:"DB_DSN"`
	FeatureFlags        string  `mapstructure:"FEATURE_FLAGS"`
	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; env vars and defaults are enough to run.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "5173")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("LOCAL_STORE_DRIVER", "memory")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("DB_DSN", "careerhub.db")
	viper.SetDefault("FEATURE_FLAGS", "demo_fallback=on,admin_screens=on")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.APIBaseURL = strings.TrimRight(strings.TrimSpace(config.APIBaseURL), "/")
	config.LocalStoreDriver = strings.ToLower(strings.TrimSpace(config.LocalStoreDriver))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.APITimeoutSeconds <= 0 {
		return errors.New("API_TIMEOUT_SECONDS must be positive")
	}
	if c.SessionTTLHours <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}

	switch c.LocalStoreDriver {
	case "memory", "redis", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown LOCAL_STORE_DRIVER %q", c.LocalStoreDriver)
	}
	if c.LocalStoreDriver == "redis" && c.RedisURL == "" {
		return errors.New("REDIS_URL is required for the redis local store")
	}
	if (c.LocalStoreDriver == "sqlite" || c.LocalStoreDriver == "postgres") && c.DBDSN == "" {
		return errors.New("DB_DSN is required for the sql local store")
	}

	if c.IsProduction() {
		if c.LocalStoreDriver == "memory" {
			return errors.New("LOCAL_STORE_DRIVER must be persistent in production")
		}
		if !c.CookieSecure {
			log.Println("WARNING: COOKIE_SECURE is false in production. Session cookies will be sent over plain HTTP.")
		}
		if u.Scheme != "https" {
			log.Println("WARNING: API_BASE_URL is not https in production.")
		}
	}

	return nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// APITimeout returns the HTTP client timeout for backend calls.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// SessionTTL returns how long a login stays valid locally.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
