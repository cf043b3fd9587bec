package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"deliverypulse/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DashboardConfig contains the dashboard defaults and upload limits
type DashboardConfig struct {
	// SpikeThreshold is the default delivery-percentage alert threshold for
	// new sessions, adjustable per session at runtime.
	SpikeThreshold float64 `yaml:"spike_threshold" envconfig:"SPIKE_THRESHOLD" default:"75.0"`
	// NetValueThreshold is the default net-value highlight threshold in
	// crores for new sessions.
	NetValueThreshold float64 `yaml:"net_value_threshold" envconfig:"NET_VALUE_THRESHOLD" default:"3.0"`
	// MaxUploadBytes caps a single multipart upload request.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"67108864"`
	// MaxFilesPerUpload caps the number of CSV payloads per upload request.
	MaxFilesPerUpload int `yaml:"max_files_per_upload" envconfig:"MAX_FILES_PER_UPLOAD" default:"32"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// Thresholds returns the configured default session thresholds.
func (c DashboardConfig) Thresholds() domain.Thresholds {
	return domain.Thresholds{
		SpikeThreshold:    c.SpikeThreshold,
		NetValueThreshold: c.NetValueThreshold,
	}
}

// Load loads configuration from environment variables and an optional config
// file. Environment variables take precedence; the file path comes from
// DP_CONFIG_FILE and defaults to config.yaml next to the binary.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := os.Getenv("DP_CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML file values onto cfg. Values already set from
// the environment keep precedence for the scalar fields that matter.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = fileCfg.Server.Port
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = fileCfg.Logging.Level
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = fileCfg.Logging.Output
	}
	if cfg.Dashboard.SpikeThreshold == 0 {
		cfg.Dashboard.SpikeThreshold = fileCfg.Dashboard.SpikeThreshold
	}
	if cfg.Dashboard.NetValueThreshold == 0 {
		cfg.Dashboard.NetValueThreshold = fileCfg.Dashboard.NetValueThreshold
	}

	return nil
}

// validate checks configuration invariants that envconfig defaults cannot
// express.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Dashboard.SpikeThreshold < 0 || c.Dashboard.SpikeThreshold > 100 {
		return fmt.Errorf("spike threshold out of range [0,100]: %v", c.Dashboard.SpikeThreshold)
	}
	if c.Dashboard.NetValueThreshold < 0 || c.Dashboard.NetValueThreshold > 50 {
		return fmt.Errorf("net value threshold out of range [0,50]: %v", c.Dashboard.NetValueThreshold)
	}
	if c.Dashboard.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", c.Dashboard.MaxUploadBytes)
	}
	if c.Dashboard.MaxFilesPerUpload <= 0 {
		return fmt.Errorf("max files per upload must be positive: %d", c.Dashboard.MaxFilesPerUpload)
	}

	return nil
}
