package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/loan-ledger/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type RedisConfig struct {
	URL             string `mapstructure:"REDIS_URL"`
	MetricsCacheTTL string `mapstructure:"METRICS_CACHE_TTL"`
}

type SchedulerConfig struct {
	Enabled            bool   `mapstructure:"SCHEDULER_ENABLED"`
	Spec               string `mapstructure:"SCHEDULER_SPEC"`
	Timezone           string `mapstructure:"SCHEDULER_TIMEZONE"`
	ReminderWindowDays int    `mapstructure:"REMINDER_WINDOW_DAYS"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DefaultInterestRate     string `mapstructure:"DEFAULT_INTEREST_RATE"`
	DefaultTermMonths       int    `mapstructure:"DEFAULT_TERM_MONTHS"`
	DefaultInstallments     int    `mapstructure:"DEFAULT_INSTALLMENTS"`
	DefaultPaymentFrequency string `mapstructure:"DEFAULT_PAYMENT_FREQUENCY"`
	SeedDemoData            bool   `mapstructure:"SEED_DEMO_DATA"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":               "8080",
	"SERVER_HOST":               "0.0.0.0",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
	"REDIS_URL":                 "",
	"METRICS_CACHE_TTL":         "5m",
	"SCHEDULER_ENABLED":         true,
	"SCHEDULER_SPEC":            "0 0 9 * * *",
	"SCHEDULER_TIMEZONE":        "UTC",
	"REMINDER_WINDOW_DAYS":      7,
	"DEFAULT_INTEREST_RATE":     "2.5",
	"DEFAULT_TERM_MONTHS":       6,
	"DEFAULT_INSTALLMENTS":      12,
	"DEFAULT_PAYMENT_FREQUENCY": "monthly",
	"SEED_DEMO_DATA":            false,
	"HEALTH_CHECK_TIMEOUT":      "5s",
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration with every default applied and no
// environment lookups.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080", Host: "0.0.0.0", Env: "development"},
		Redis:     RedisConfig{MetricsCacheTTL: "5m"},
		Scheduler: SchedulerConfig{Enabled: true, Spec: "0 0 9 * * *", Timezone: "UTC", ReminderWindowDays: 7},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Business: BusinessConfig{
			DefaultInterestRate:     "2.5",
			DefaultTermMonths:       6,
			DefaultInstallments:     12,
			DefaultPaymentFrequency: string(domain.FrequencyMonthly),
		},
		Health: HealthConfig{Timeout: "5s"},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}

	rate, err := decimal.NewFromString(c.Business.DefaultInterestRate)
	if err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must not be negative")
	}

	if c.Business.DefaultTermMonths <= 0 {
		return fmt.Errorf("DEFAULT_TERM_MONTHS must be greater than 0")
	}

	if c.Business.DefaultInstallments <= 0 {
		return fmt.Errorf("DEFAULT_INSTALLMENTS must be greater than 0")
	}

	if !domain.Frequency(c.Business.DefaultPaymentFrequency).IsValid() {
		return fmt.Errorf("DEFAULT_PAYMENT_FREQUENCY %q is not a known frequency", c.Business.DefaultPaymentFrequency)
	}

	if _, err := time.ParseDuration(c.Redis.MetricsCacheTTL); err != nil {
		return fmt.Errorf("METRICS_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	if c.Scheduler.Enabled {
		if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Scheduler.Spec); err != nil {
			return fmt.Errorf("SCHEDULER_SPEC must be a valid cron expression: %w", err)
		}
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
		}
		if c.Scheduler.ReminderWindowDays <= 0 {
			return fmt.Errorf("REMINDER_WINDOW_DAYS must be greater than 0")
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultInterestRate returns the default monthly interest rate as decimal
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultInterestRate)
	return rate
}

// GetDefaultFrequency returns the default schedule frequency
func (c *Config) GetDefaultFrequency() domain.Frequency {
	return domain.Frequency(c.Business.DefaultPaymentFrequency)
}

// GetMetricsCacheTTL returns the metrics cache TTL as duration
func (c *Config) GetMetricsCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Redis.MetricsCacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// GetSchedulerLocation returns the scheduler timezone, UTC when unset
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CacheEnabled reports whether a Redis URL was configured
func (c *Config) CacheEnabled() bool {
	return c.Redis.URL != ""
}
