// Package config loads and validates tally.yml, the per-project
// configuration for the tally CLI.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/tally/pkg/registry"
)

// DefaultPath is where commands look for the configuration by default.
const DefaultPath = "tally.yml"

// MaxInstanceNameLength keeps instance names DNS-compatible.
const MaxInstanceNameLength = 63

// instanceNamePattern: lowercase alphanumeric with hyphens, not at start or
// end.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// Config represents the top-level tally.yml configuration.
type Config struct {
	Version  string      `yaml:"version"`
	Instance string      `yaml:"instance"`          // namespace for all Redis keys and channels
	Account  string      `yaml:"account,omitempty"` // default caller account for mutating commands
	Redis    RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"` // default: localhost:6379
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// ValidateInstanceName checks an instance name against DNS naming rules.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}
	if len(name) > MaxInstanceNameLength {
		return fmt.Errorf("instance name too long: %d characters (max: %d)", len(name), MaxInstanceNameLength)
	}
	if !instanceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid instance name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}
	return nil
}

// Validate performs strict validation on the configuration and applies
// defaults.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if err := ValidateInstanceName(c.Instance); err != nil {
		return err
	}

	if c.Account != "" {
		if err := registry.AccountID(c.Account).Validate(); err != nil {
			return fmt.Errorf("invalid default account: %w", err)
		}
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	return nil
}

// Load reads and validates tally.yml from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
