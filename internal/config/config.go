// Package config loads the process-wide configuration record once at
// startup from defaults, an optional file, environment variables, and
// command-line flags, in that increasing order of precedence.
package config

import (
	"fmt"

	"github.com/H2Owater425/dqache/internal/wire"
)

// Model names the eviction policy to construct the cache with.
type Model string

// Supported eviction policies.
const (
	ModelDQN Model = "DQN"
	ModelLRU Model = "LRU"
	ModelLFU Model = "LFU"
)

// Config is the process-wide, immutable configuration record. Populated
// once at startup and read-only thereafter.
type Config struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Capacity     int    `koanf:"capacity"`
	Model        Model  `koanf:"model"`
	Directory    string `koanf:"directory"`
	Verbose      bool   `koanf:"verbose"`
	AdminAddress string `koanf:"admin_address"`
	LogLevel     string `koanf:"log_level"`
	LogFormat    string `koanf:"log_format"`

	// Version is the server's own protocol version, used in the READY
	// banner and to reject clients whose HELLO version is too new.
	Version wire.Version `koanf:"-"`
}

// Default returns the baseline configuration merged underneath any file,
// env, or flag-provided values.
func Default() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         7600,
		Capacity:     1024,
		Model:        ModelLRU,
		Directory:    "./data",
		Verbose:      false,
		AdminAddress: ":9090",
		LogLevel:     "info",
		LogFormat:    "console",
		Version:      wire.Version{Major: 1, Minor: 0, Patch: 0},
	}
}

// Validate checks the invariants the rest of the system relies on:
// capacity must be positive and model must name one of the known policies.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be a positive integer, got %d", c.Capacity)
	}

	switch c.Model {
	case ModelDQN, ModelLRU, ModelLFU:
	default:
		return fmt.Errorf("model must be one of DQN, LRU, LFU, got %q", c.Model)
	}

	if c.Directory == "" {
		return fmt.Errorf("directory must not be empty")
	}

	return nil
}
