//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for salescube.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/smartsales/salescube/internal/warehouse"
)

// Config holds all configuration for salescube.
type Config struct {
	// Driver selects the warehouse backend: "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`

	// DSN is the warehouse location: a file path for sqlite, a
	// connection string for postgres.
	DSN string `mapstructure:"dsn"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Gen holds configuration for the gen subcommand.
	Gen GenConfig `mapstructure:"gen"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Cube holds configuration for the cube subcommand.
	Cube CubeConfig `mapstructure:"cube"`
}

// GenConfig holds configuration for raw data generation.
type GenConfig struct {
	// Dir is where the raw CSV files are written.
	Dir string `mapstructure:"dir"`

	// Customers, Products and Sales set the row counts.
	Customers int `mapstructure:"customers"`
	Products  int `mapstructure:"products"`
	Sales     int `mapstructure:"sales"`

	// Seed fixes the random stream; 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed"`

	// Clean disables defect injection entirely.
	Clean bool `mapstructure:"clean"`
}

// LoadConfig holds configuration for the pipeline run.
type LoadConfig struct {
	// Dir is where the raw CSV files are read from.
	Dir string `mapstructure:"dir"`
}

// CubeConfig holds configuration for cube builds.
type CubeConfig struct {
	// Dimensions is the default group-by column list.
	Dimensions []string `mapstructure:"dimensions"`

	// Measures is the default measure list; empty means all.
	Measures []string `mapstructure:"measures"`

	// Output is the CSV path for the flattened cube ("" prints to stdout).
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Driver:   warehouse.DriverSQLite,
		DSN:      "salescube.db",
		LogLevel: "info",
		Gen: GenConfig{
			Dir:       "data",
			Customers: 200,
			Products:  100,
			Sales:     1000,
		},
		Load: LoadConfig{
			Dir: "data",
		},
		Cube: CubeConfig{
			Dimensions: []string{"store_id"},
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./salescube.yaml
// 3. ~/.config/salescube/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("salescube")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "salescube"))
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
	if c.Driver != warehouse.DriverSQLite && c.Driver != warehouse.DriverPostgres {
		return fmt.Errorf("driver must be %q or %q", warehouse.DriverSQLite, warehouse.DriverPostgres)
	}
	if c.DSN == "" {
		return fmt.Errorf("warehouse dsn is required")
	}
	return nil
}

// ValidateGen checks configuration required for the gen command.
func (c *Config) ValidateGen() error {
	if c.Gen.Dir == "" {
		return fmt.Errorf("output directory is required for gen")
	}
	if c.Gen.Customers < 1 || c.Gen.Products < 1 || c.Gen.Sales < 1 {
		return fmt.Errorf("row counts must be at least 1")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.Dir == "" {
		return fmt.Errorf("input directory is required for load")
	}
	return nil
}

// ValidateCube checks configuration required for the cube command.
func (c *Config) ValidateCube() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Cube.Dimensions) == 0 {
		return fmt.Errorf("at least one dimension is required")
	}
	return nil
}
