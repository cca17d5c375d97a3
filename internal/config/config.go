// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Development-only secrets. Validate refuses them in production.
const (
	DefaultJWTSecret     = "dev-jwt-secret-change-in-production"
	DefaultSessionSecret = "dev-session-secret-change-in-production"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	SessionSecret  string `mapstructure:"SESSION_SECRET"`
	SessionStore   string `mapstructure:"SESSION_STORE"`
	CookieSecure   bool   `mapstructure:"COOKIE_SECURE"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	SessionTTLHours      int `mapstructure:"SESSION_TTL_HOURS"`
	TokenTTLHours        int `mapstructure:"TOKEN_TTL_HOURS"`
	ResetTokenTTLMinutes int `mapstructure:"RESET_TOKEN_TTL_MINUTES"`

	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err == nil {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.SessionStore = strings.ToLower(strings.TrimSpace(config.SessionStore))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "myfilmfriends")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)
	viper.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	viper.SetDefault("SESSION_STORE", "redis")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:8081,http://localhost:19006,http://localhost:3000")
	viper.SetDefault("SESSION_TTL_HOURS", 168)
	viper.SetDefault("TOKEN_TTL_HOURS", 168)
	viper.SetDefault("RESET_TOKEN_TTL_MINUTES", 60)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SessionTTL is the lifetime of a login session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// TokenTTL is the lifetime of an issued bearer token.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// ResetTokenTTL is the lifetime of a password reset token.
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetTokenTTLMinutes) * time.Minute
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.SessionTTLHours <= 0 || c.TokenTTLHours <= 0 || c.ResetTokenTTLMinutes <= 0 {
		return errors.New("SESSION_TTL_HOURS, TOKEN_TTL_HOURS and RESET_TOKEN_TTL_MINUTES must be positive")
	}
	switch c.SessionStore {
	case "", "redis", "database":
	default:
		return fmt.Errorf("SESSION_STORE must be 'redis' or 'database', got %q", c.SessionStore)
	}

	if c.IsProduction() {
		if c.JWTSecret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if c.SessionSecret == DefaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 || len(c.SessionSecret) < 32 {
			return errors.New("JWT_SECRET and SESSION_SECRET must be at least 32 characters in production")
		}
		if c.DatabaseURL == "" {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must enable TLS in production")
			}
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if c.JWTSecret == DefaultJWTSecret || c.SessionSecret == DefaultSessionSecret {
		log.Println("WARNING: using development default secrets. Set JWT_SECRET and SESSION_SECRET before deploying.")
	}

	return nil
}
