// internal/config/config.go
// Package config defines the application configuration, its defaults and
// validation. Values flow in from the config file, environment variables
// (prefix WEBSCOUT) and CLI flags via viper.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Exploration depth bounds. Depth is user-facing; anything outside the range
// is rejected before a browser ever starts.
const (
	MinDepth = 1
	MaxDepth = 5
)

// Config is the root configuration object.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Browser BrowserConfig `mapstructure:"browser"`
	Network NetworkConfig `mapstructure:"network"`
	Explore ExploreConfig `mapstructure:"explore"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
}

// LoggerConfig drives the observability package.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	AddSource   bool   `mapstructure:"add_source"`
	ServiceName string `mapstructure:"service_name"`
	LogFile     string `mapstructure:"log_file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
	Colors      bool   `mapstructure:"colors"`
}

// BrowserConfig controls the managed browser session.
type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"`
	IgnoreTLSErrors bool          `mapstructure:"ignore_tls_errors"`
	UserAgent       string        `mapstructure:"user_agent"`
	WindowWidth     int           `mapstructure:"window_width"`
	WindowHeight    int           `mapstructure:"window_height"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
}

// NetworkConfig holds navigation timing and politeness settings.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	PolitenessDelay   time.Duration `mapstructure:"politeness_delay"`
}

// ExploreConfig holds per-run exploration parameters.
type ExploreConfig struct {
	MaxDepth  int    `mapstructure:"max_depth"`
	OutputDir string `mapstructure:"output_dir"`
}

// OracleConfig configures the optional classification oracle. An empty API
// key disables it; every form then keeps its deterministic label.
type OracleConfig struct {
	Model      string        `mapstructure:"model"`
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	APITimeout time.Duration `mapstructure:"api_timeout"`
}

// Enabled reports whether the oracle can actually be constructed.
func (o OracleConfig) Enabled() bool {
	return o.APIKey != ""
}

// SetDefaults registers every default value on the given viper instance.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "webscout-cli")
	v.SetDefault("logger.log_file", "webscout.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.idle_timeout", "10s")

	// -- Network --
	v.SetDefault("network.navigation_timeout", "90s")
	v.SetDefault("network.politeness_delay", "1s")

	// -- Exploration --
	v.SetDefault("explore.max_depth", 3)
	v.SetDefault("explore.output_dir", "exploration_reports")

	// -- Oracle --
	v.SetDefault("oracle.model", "gemini-2.5-flash")
	v.SetDefault("oracle.endpoint", "")
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.api_timeout", "60s")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data
	v.BindEnv("oracle.api_key", "WEBSCOUT_ORACLE_API_KEY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Manually load the key if Unmarshal didn't pick it up
	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = os.Getenv("WEBSCOUT_ORACLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Explore.Validate(); err != nil {
		return err
	}
	if c.Network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be positive")
	}
	if c.Network.PolitenessDelay < 0 {
		return fmt.Errorf("network.politeness_delay must not be negative")
	}
	if c.Browser.IdleTimeout <= 0 {
		return fmt.Errorf("browser.idle_timeout must be positive")
	}
	return nil
}

// Validate rejects out-of-range exploration parameters.
func (e ExploreConfig) Validate() error {
	if e.MaxDepth < MinDepth || e.MaxDepth > MaxDepth {
		return fmt.Errorf("explore.max_depth must be between %d and %d, got %d", MinDepth, MaxDepth, e.MaxDepth)
	}
	if e.OutputDir == "" {
		return fmt.Errorf("explore.output_dir must not be empty")
	}
	return nil
}
