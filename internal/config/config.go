// Package config loads tunectl configuration and sets up logging.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Platform API
	ServerURL      string
	RequestTimeout time.Duration

	// Watch view
	PollInterval time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Output
	NoColor bool
}

// fileConfig is the YAML shape of ~/.config/tunectl/config.yaml. Durations
// are strings ("30s", "2m") parsed by time.ParseDuration.
type fileConfig struct {
	ServerURL      string `yaml:"server_url"`
	RequestTimeout string `yaml:"request_timeout"`
	PollInterval   string `yaml:"poll_interval"`
	LogFile        string `yaml:"log_file"`
	LogLevel       string `yaml:"log_level"`
	NoColor        *bool  `yaml:"no_color"`
}

// Load builds the configuration from defaults, the optional config file, and
// environment variables, in increasing precedence.
func Load() (Config, error) {
	cfg := Config{
		ServerURL:      "http://localhost:8600/api/v1",
		RequestTimeout: 30 * time.Second,
		PollInterval:   2 * time.Second,
		LogFile:        defaultLogFile(),
		LogLevel:       slog.LevelInfo,
	}

	path := os.Getenv("TUNECTL_CONFIG")
	if path == "" {
		path = defaultConfigFile()
	}
	if err := cfg.applyFile(path); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()

	return cfg, nil
}

// applyFile layers values from a YAML config file. A missing file is not an
// error; a malformed one is.
func (c *Config) applyFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.ServerURL != "" {
		c.ServerURL = fc.ServerURL
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: request_timeout: %w", path, err)
		}
		c.RequestTimeout = d
	}
	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil {
			return fmt.Errorf("config file %s: poll_interval: %w", path, err)
		}
		c.PollInterval = d
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
	}
	return nil
}

// applyEnv layers environment variables on top.
func (c *Config) applyEnv() {
	if v := os.Getenv("TUNECTL_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("TUNECTL_CLIENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("TUNECTL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("TUNECTL_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("TUNECTL_LOG_LEVEL"); v != "" {
		c.LogLevel = parseLogLevel(v)
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TUNECTL_NO_COLOR") == "true" {
		c.NoColor = true
	}
}

func defaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tunectl", "config.yaml")
}

func defaultLogFile() string {
	return filepath.Join(os.TempDir(), "tunectl.log")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
