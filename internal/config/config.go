package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Store   StoreConfig   `mapstructure:"store"`
	Export  ExportConfig  `mapstructure:"export"`
	Preview PreviewConfig `mapstructure:"preview"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// APIConfig holds backend API configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds session credential configuration
type SessionConfig struct {
	TokenPath string `mapstructure:"token_path"`
}

// StoreConfig holds the local receipt cache configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig holds export output configuration
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// PreviewConfig holds preview rendering configuration
type PreviewConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// WatchConfig holds drop-directory watch configuration
type WatchConfig struct {
	Dir      string        `mapstructure:"dir"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A
// missing config file is fine; defaults and environment cover the
// common case.
func Load(configPath string) (*Config, error) {
	setDefaults()
	bindEnvVars()
	viper.AutomaticEnv()

	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".complicopilot")

	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("api.timeout", 30*time.Second)

	viper.SetDefault("session.token_path", filepath.Join(base, "token"))
	viper.SetDefault("store.path", filepath.Join(base, "receipts.db"))
	viper.SetDefault("export.output_dir", filepath.Join(base, "exports"))
	viper.SetDefault("preview.output_dir", filepath.Join(base, "previews"))

	viper.SetDefault("watch.dir", filepath.Join(base, "inbox"))
	viper.SetDefault("watch.debounce", 500*time.Millisecond)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stderr")
	viper.SetDefault("logger.format", "console")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("api.base_url", "CCP_API_BASE_URL")
	viper.BindEnv("session.token_path", "CCP_TOKEN_PATH")
	viper.BindEnv("watch.dir", "CCP_WATCH_DIR")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Session.TokenPath == "" {
		return fmt.Errorf("session.token_path is required")
	}
	return nil
}
