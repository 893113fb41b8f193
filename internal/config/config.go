// Package config handles configuration management for lakegen.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for lakegen.
type Config struct {
	// Warehouse is the path to the DuckDB database file.
	Warehouse string `mapstructure:"warehouse"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`
}

// GenerateConfig holds configuration for raw dataset generation.
type GenerateConfig struct {
	// Out is the directory raw files are written under.
	Out string `mapstructure:"out"`

	// Seed makes generation reproducible. The same seed and row counts
	// produce identical raw files.
	Seed uint64 `mapstructure:"seed"`

	// Row counts per entity.
	Customers int `mapstructure:"customers"`
	Products  int `mapstructure:"products"`
	Stores    int `mapstructure:"stores"`
	Suppliers int `mapstructure:"suppliers"`
	Orders    int `mapstructure:"orders"`
	Events    int `mapstructure:"events"`
	Sensors   int `mapstructure:"sensors"`

	// Days is the span of the order/exchange-rate calendar, starting at
	// StartDate. Orders are partitioned into one directory per day.
	Days      int    `mapstructure:"days"`
	StartDate string `mapstructure:"start_date"`

	// DirtyRate is the fraction of customer rows given a malformed email
	// so that ignore_errors load paths see real rejects.
	DirtyRate float64 `mapstructure:"dirty_rate"`
}

// LoadConfig holds configuration for bronze ingestion.
type LoadConfig struct {
	// Raw is the directory raw files are read from.
	Raw string `mapstructure:"raw"`

	// Workers is the number of tables loaded concurrently.
	Workers int `mapstructure:"workers"`

	// Threads is the DuckDB PRAGMA threads setting.
	Threads int `mapstructure:"threads"`

	// Force reloads files already recorded in the manifest.
	Force bool `mapstructure:"force"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Warehouse: filepath.Join("duckdb", "warehouse.duckdb"),
		LogLevel:  "info",
		Generate: GenerateConfig{
			Out:       "data_raw",
			Seed:      42,
			Customers: 1000,
			Products:  400,
			Stores:    10,
			Suppliers: 10,
			Orders:    200,
			Events:    1000,
			Sensors:   720,
			Days:      90,
			StartDate: "2024-01-01",
			DirtyRate: 0.02,
		},
		Load: LoadConfig{
			Raw:     "data_raw",
			Workers: 4,
			Threads: 4,
			Force:   false,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./lakegen.yaml
// 3. ~/.config/lakegen/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("lakegen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "lakegen"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Warehouse == "" {
		return fmt.Errorf("warehouse path is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.Out == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Generate.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if c.Generate.Products < 1 {
		return fmt.Errorf("products must be at least 1")
	}
	if c.Generate.Stores < 1 {
		return fmt.Errorf("stores must be at least 1")
	}
	if c.Generate.Orders < 1 {
		return fmt.Errorf("orders must be at least 1")
	}
	if c.Generate.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if c.Generate.DirtyRate < 0 || c.Generate.DirtyRate > 1 {
		return fmt.Errorf("dirty_rate must be between 0 and 1")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.Raw == "" {
		return fmt.Errorf("raw directory is required")
	}
	if c.Load.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Load.Threads < 1 {
		return fmt.Errorf("threads must be at least 1")
	}
	return nil
}
