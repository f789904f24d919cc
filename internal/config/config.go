// Package config loads server settings from defaults, an optional TOML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"budget-tracker/internal/currency"
	"budget-tracker/internal/log"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ConfigFileEnv names the environment variable pointing at a TOML config file.
const ConfigFileEnv = "BUDGET_CONFIG"

type Config struct {
	// HTTP Server
	Port         string
	SecureCookie bool

	// Database
	DBPath string

	// Logging
	LogLevel string

	// Sessions
	DefaultCurrency      string
	SessionSweepInterval time.Duration

	// Bootstrap user created when the users table is empty
	AdminUser     string
	AdminPassword string
}

// fileConfig mirrors Config in the TOML file. Unset keys keep the lower layer.
type fileConfig struct {
	Port                 string `toml:"port"`
	SecureCookie         *bool  `toml:"secure_cookie"`
	DBPath               string `toml:"db_path"`
	LogLevel             string `toml:"log_level"`
	DefaultCurrency      string `toml:"default_currency"`
	SessionSweepInterval string `toml:"session_sweep_interval"`
	AdminUser            string `toml:"admin_user"`
	AdminPassword        string `toml:"admin_password"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:                 "8080",
		DBPath:               "budget.db",
		LogLevel:             "info",
		DefaultCurrency:      currency.Default,
		SessionSweepInterval: time.Hour,
	}
}

// Load builds the configuration. It does not validate it.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.DBPath, fc.DBPath)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.DefaultCurrency, fc.DefaultCurrency)
	setString(&c.AdminUser, fc.AdminUser)
	setString(&c.AdminPassword, fc.AdminPassword)
	if fc.SecureCookie != nil {
		c.SecureCookie = *fc.SecureCookie
	}
	if fc.SessionSweepInterval != "" {
		d, err := time.ParseDuration(fc.SessionSweepInterval)
		if err != nil {
			return fmt.Errorf("config %s: session_sweep_interval: %w", path, err)
		}
		c.SessionSweepInterval = d
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.DBPath, os.Getenv("DB_PATH"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.DefaultCurrency, os.Getenv("DEFAULT_CURRENCY"))
	setString(&c.AdminUser, os.Getenv("ADMIN_USER"))
	setString(&c.AdminPassword, os.Getenv("ADMIN_PASSWORD"))

	if v := os.Getenv("SECURE_COOKIE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SECURE_COOKIE: %w", err)
		}
		c.SecureCookie = b
	}
	if v := os.Getenv("SESSION_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_SWEEP_INTERVAL: %w", err)
		}
		c.SessionSweepInterval = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if !currency.Supported(c.DefaultCurrency) {
		problems = append(problems, fmt.Sprintf("unsupported default currency '%s'", c.DefaultCurrency))
	}

	if c.SessionSweepInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid session sweep interval %v: must be at least 1 minute", c.SessionSweepInterval))
	}

	if (c.AdminUser == "") != (c.AdminPassword == "") {
		problems = append(problems, "ADMIN_USER and ADMIN_PASSWORD must be set together")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
