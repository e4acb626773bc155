// Package config holds server tuning and the optional balance file.
// Presets cover production, stress testing and low-resource development.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
)

var (
	// ErrInvalidConfig wraps every Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidCatalog is returned when a balance file cannot be played.
	ErrInvalidCatalog = errors.New("invalid balance file")
)

// Config holds tuned parameters for the server.
type Config struct {
	Preset string `yaml:"preset,omitempty"`

	Listen      string `yaml:"listen"`
	DBPath      string `yaml:"db_path"`
	SaveKey     string `yaml:"save_key"`
	BalanceFile string `yaml:"balance_file,omitempty"`

	// Loop cadences
	TickInterval      time.Duration `yaml:"tick_interval"`
	SaveInterval      time.Duration `yaml:"save_interval"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// Expected random bug spawns per second
	BugSpawnRate float64 `yaml:"bug_spawn_rate"`

	// Buffers
	ClientSendBuffer int `yaml:"client_send_buffer"`
	EventLogCapacity int `yaml:"event_log_capacity"`

	// Rate limiting, per client
	MaxActionsPerSecond float64 `yaml:"max_actions_per_second"`
	ActionBurst         int     `yaml:"action_burst"`
	MaxClients          int     `yaml:"max_clients"`
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	return &Config{
		Preset:            "default",
		Listen:            ":8080",
		DBPath:            "clicker.db",
		SaveKey:           "clicker-storage",
		TickInterval:      100 * time.Millisecond,
		SaveInterval:      5 * time.Second,
		BroadcastInterval: 250 * time.Millisecond,
		BugSpawnRate:      0.05, // 0.5% per 100ms

		ClientSendBuffer: 64,
		EventLogCapacity: 4096,

		MaxActionsPerSecond: 30,
		ActionBurst:         60,
		MaxClients:          200,
	}
}

// StressTestConfig returns aggressive settings for load generation runs.
func StressTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Preset = "stress"
	cfg.ClientSendBuffer = 256
	cfg.EventLogCapacity = 16384
	cfg.MaxActionsPerSecond = 500
	cfg.ActionBurst = 1000
	cfg.MaxClients = 1000
	return cfg
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	cfg := DefaultConfig()
	cfg.Preset = "low"
	cfg.TickInterval = 250 * time.Millisecond
	cfg.BroadcastInterval = time.Second
	cfg.SaveInterval = 15 * time.Second
	cfg.ClientSendBuffer = 8
	cfg.EventLogCapacity = 256
	cfg.MaxActionsPerSecond = 10
	cfg.ActionBurst = 20
	cfg.MaxClients = 20
	return cfg
}

// Preset returns a fresh copy of a named preset.
func Preset(name string) (*Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "stress":
		return StressTestConfig(), nil
	case "low":
		return LowResourceConfig(), nil
	}
	return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
}

// Load reads a YAML config file. Keys the file omits keep the values of its preset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg, err := Preset(head.Preset)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Listen == "":
		return fmt.Errorf("%w: listen is required", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path is required", ErrInvalidConfig)
	case c.SaveKey == "":
		return fmt.Errorf("%w: save_key is required", ErrInvalidConfig)
	case c.TickInterval <= 0 || c.SaveInterval <= 0 || c.BroadcastInterval <= 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidConfig)
	case c.BugSpawnRate < 0:
		return fmt.Errorf("%w: bug_spawn_rate must be >= 0", ErrInvalidConfig)
	case c.ClientSendBuffer <= 0 || c.EventLogCapacity <= 0:
		return fmt.Errorf("%w: buffers must be positive", ErrInvalidConfig)
	case c.MaxActionsPerSecond <= 0 || c.ActionBurst < 1:
		return fmt.Errorf("%w: action rate and burst must be positive", ErrInvalidConfig)
	case c.MaxClients <= 0:
		return fmt.Errorf("%w: max_clients must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadBalance reads a balance YAML file over the default catalog. Lists the file omits keep
// their defaults; lists it names are replaced whole.
func LoadBalance(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance %s: %w", path, err)
	}
	cat := catalog.Default()
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalog, path, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, path, err)
	}
	return cat, nil
}

// Catalog returns the balance file's catalog, or the default one when none is configured.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.BalanceFile == "" {
		return catalog.Default(), nil
	}
	return LoadBalance(c.BalanceFile)
}
