// Package config provides seeder configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds seeder configuration values loaded from file or environment variables.
type Config struct {
	Env                     string  `mapstructure:"APP_ENV"`
	DBDriver                string  `mapstructure:"DB_DRIVER"`
	DatabaseURL             string  `mapstructure:"DATABASE_URL"`
	DBHost                  string  `mapstructure:"DB_HOST"`
	DBPort                  string  `mapstructure:"DB_PORT"`
	DBUser                  string  `mapstructure:"DB_USER"`
	DBPassword              string  `mapstructure:"DB_PASSWORD"`
	DBName                  string  `mapstructure:"DB_NAME"`
	DBSSLMode               string  `mapstructure:"DB_SSLMODE"`
	DBPath                  string  `mapstructure:"DB_PATH"`
	DBConnectTimeoutSeconds int     `mapstructure:"DB_CONNECT_TIMEOUT_SECONDS"`
	BcryptCost              int     `mapstructure:"BCRYPT_COST"`
	SeedShowPasswords       bool    `mapstructure:"SEED_SHOW_PASSWORDS"`
	LogFormat               string  `mapstructure:"LOG_FORMAT"`
	LogLevel                string  `mapstructure:"LOG_LEVEL"`
	TracingEnabled          bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter         string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint            string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio     float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// keys lists every key so AutomaticEnv values reach Unmarshal even without a config file.
var keys = []string{
	"APP_ENV", "DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
	"DB_NAME", "DB_SSLMODE", "DB_PATH", "DB_CONNECT_TIMEOUT_SECONDS", "BCRYPT_COST",
	"SEED_SHOW_PASSWORDS", "LOG_FORMAT", "LOG_LEVEL", "TRACING_ENABLED", "TRACING_EXPORTER",
	"OTLP_ENDPOINT", "TRACING_SAMPLER_RATIO",
}

// LoadConfig loads configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	env := v.GetString("APP_ENV")
	if env != "" && env != "development" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err == nil {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "panchayat")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "panchayat.db")
	v.SetDefault("DB_CONNECT_TIMEOUT_SECONDS", 5)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("SEED_SHOW_PASSWORDS", true)
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = "text"
		if c.IsProduction() {
			c.LogFormat = "json"
		}
	}
}

// IsProduction reports whether the environment holds real credentials.
func (c *Config) IsProduction() bool {
	switch c.Env {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// ShowPasswords reports whether creation notices may echo plaintext passwords.
func (c *Config) ShowPasswords() bool {
	return c.SeedShowPasswords && !c.IsProduction()
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && (c.DBHost == "" || c.DBName == "") {
			return errors.New("DB_HOST and DB_NAME are required when DATABASE_URL is not set")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.DBConnectTimeoutSeconds <= 0 {
		return errors.New("DB_CONNECT_TIMEOUT_SECONDS must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	if c.TracingSamplerRatio < 0 || c.TracingSamplerRatio > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}

	if c.IsProduction() {
		if c.DatabaseURL == "" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.SeedShowPasswords {
			log.Println("WARNING: SEED_SHOW_PASSWORDS is ignored in production; passwords will be masked.")
		}
		if c.DBDriver == DriverPostgres && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}
