// Package config loads the calc command's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc/internal/logger"
	"github.com/zephyrtronium/calc/internal/server"
)

// Config is the full configuration file.
type Config struct {
	// Format is the fmt verb used to print results.
	Format string        `yaml:"format"`
	Log    logger.Config `yaml:"log"`
	Server server.Config `yaml:"server"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Format: "%g",
		Log:    logger.DefaultConfig(),
		Server: server.DefaultConfig(),
	}
}

// Load reads a configuration file over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the rest of the program cannot recover from.
func (c *Config) Validate() error {
	// fmt reports a bad verb, a missing or extra operand with "%!".
	if out := fmt.Sprintf(c.Format, 1.5); strings.Contains(out, "%!") {
		return fmt.Errorf("result format %q does not format one number: %s", c.Format, out)
	}
	if c.Server.Address == "" {
		return errors.New("server address is empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}
	return nil
}
