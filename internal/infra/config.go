package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Trading modes. REAL additionally requires the CONFIRM_REAL_MONEY
// environment latch before a session will start.
const (
	ModeDryRun  = "DRYRUN"
	ModeTestnet = "TESTNET"
	ModeReal    = "REAL"
)

// Config holds the full application configuration. Loaded from YAML, then
// overridden by environment variables so secrets stay out of files.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Trading struct {
		Mode string `yaml:"mode"` // DRYRUN, TESTNET or REAL
	} `yaml:"trading"`

	API struct {
		Binance struct {
			RestURL      string `yaml:"rest_url"` // optional endpoint override
			WSURL        string `yaml:"ws_url"`   // optional stream override
			APIKey       string `yaml:"api_key"`
			APISecret    string `yaml:"api_secret"`
			RecvWindowMS int64  `yaml:"recv_window_ms"`
		} `yaml:"binance"`
	} `yaml:"api"`

	Journal struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no config file exists:
// testnet trading with journaling on.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "binance-bot"
	cfg.App.Version = "dev"
	cfg.Trading.Mode = ModeTestnet
	cfg.API.Binance.RecvWindowMS = 5000
	cfg.Journal.Enabled = true
	cfg.Logging.Level = "info"
	return cfg
}

// LoadConfig reads the config file, applies environment overrides and
// validates the result. A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Run on defaults + environment.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	mode := strings.ToUpper(c.Trading.Mode)
	switch mode {
	case ModeDryRun, ModeTestnet, ModeReal:
		c.Trading.Mode = mode
	default:
		return fmt.Errorf("unknown trading mode %q (want DRYRUN, TESTNET or REAL)", c.Trading.Mode)
	}

	if c.API.Binance.RecvWindowMS <= 0 {
		return fmt.Errorf("recv_window_ms must be positive")
	}
	if u := c.API.Binance.RestURL; u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("invalid Binance REST URL: %s", u)
	}
	if u := c.API.Binance.WSURL; u != "" && !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
		return fmt.Errorf("invalid Binance WS URL: %s", u)
	}
	return nil
}

// HasCredentials reports whether both API key and secret are set.
func (c *Config) HasCredentials() bool {
	return c.API.Binance.APIKey != "" && c.API.Binance.APISecret != ""
}

// overrideWithEnv lets environment variables trump the config file, so
// secrets never need to live on disk.
func overrideWithEnv(cfg *Config) {
	if cfg.API.Binance.APISecret != "" {
		fmt.Fprintln(os.Stderr, "WARNING: API secret found in config file; prefer BINANCE_API_KEY / BINANCE_API_SECRET environment variables")
	}

	if key := os.Getenv("BINANCE_API_KEY"); key != "" {
		cfg.API.Binance.APIKey = key
	}
	if secret := os.Getenv("BINANCE_API_SECRET"); secret != "" {
		cfg.API.Binance.APISecret = secret
	}
	if mode := os.Getenv("BINANCE_BOT_MODE"); mode != "" {
		cfg.Trading.Mode = mode
	}
}
