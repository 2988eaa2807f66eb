// Package config loads application configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Forecast   ForecastConfig   `mapstructure:"forecast"`
	AWS        AWSConfig        `mapstructure:"aws"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	LogLevel    string `mapstructure:"log_level"`
	MetricsBind string `mapstructure:"metrics_bind"`
}

// PostgresConfig holds the transactional store settings.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ClickHouseConfig holds the analytical store settings.
type ClickHouseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// PipelineConfig tunes the normalization stages.
type PipelineConfig struct {
	OutlierStrategy     string  `mapstructure:"outlier_strategy"`
	IQRMultiplier       float64 `mapstructure:"iqr_multiplier"`
	InterpolationMethod string  `mapstructure:"interpolation_method"`
}

// ForecastConfig selects and tunes the forecast provider.
type ForecastConfig struct {
	Provider    string `mapstructure:"provider"`
	HorizonDays int    `mapstructure:"horizon_days"`
}

// AWSConfig holds the managed forecasting service settings.
type AWSConfig struct {
	Region              string `mapstructure:"region"`
	Bucket              string `mapstructure:"bucket"`
	RoleArn             string `mapstructure:"role_arn"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	MaxWaitSeconds      int    `mapstructure:"max_wait_seconds"`
}

// Load reads the config file at path. Any key can be overridden by an
// RF_-prefixed environment variable, e.g. RF_POSTGRES_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("RF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "reorder-forecast")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("pipeline.outlier_strategy", "cap")
	v.SetDefault("pipeline.iqr_multiplier", 1.5)
	v.SetDefault("pipeline.interpolation_method", "zero")
	v.SetDefault("forecast.provider", "statistical")
	v.SetDefault("forecast.horizon_days", 30)
	v.SetDefault("aws.poll_interval_seconds", 30)
	v.SetDefault("aws.max_wait_seconds", 3600)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings a run cannot proceed without.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.ClickHouse.DSN == "" {
		return fmt.Errorf("clickhouse.dsn is required")
	}
	switch c.Forecast.Provider {
	case "statistical", "managed":
	default:
		return fmt.Errorf("forecast.provider must be statistical or managed, got %q", c.Forecast.Provider)
	}
	if c.Forecast.Provider == "managed" {
		if c.AWS.Bucket == "" {
			return fmt.Errorf("aws.bucket is required for the managed provider")
		}
		if c.AWS.RoleArn == "" {
			return fmt.Errorf("aws.role_arn is required for the managed provider")
		}
	}
	return nil
}
