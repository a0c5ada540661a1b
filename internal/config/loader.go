package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Loader builds a Config by merging, in increasing order of precedence,
// built-in defaults, an optional YAML file, environment variables prefixed
// with DQACHE_, and command-line flags.
type Loader struct {
	k   *koanf.Koanf
	err error
}

// NewLoader creates a Loader seeded with the package defaults.
func NewLoader() *Loader {
	l := &Loader{k: koanf.New(".")}

	if err := l.k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		l.err = err
	}

	return l
}

// WithFile merges a YAML configuration file into the loader. A missing file
// is not an error: the file source is simply skipped.
func (l *Loader) WithFile(path string) *Loader {
	if l.err != nil || path == "" {
		return l
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return l
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		l.err = fmt.Errorf("load config file %s: %w", path, err)
	}

	return l
}

// WithEnv merges environment variables prefixed with DQACHE_ into the
// loader (e.g. DQACHE_PORT, DQACHE_ADMIN_ADDRESS).
func (l *Loader) WithEnv() *Loader {
	if l.err != nil {
		return l
	}

	const prefix = "DQACHE_"
	err := l.k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil)
	if err != nil {
		l.err = err
	}

	return l
}

// WithFlags merges parsed command-line flags into the loader.
func (l *Loader) WithFlags(flags *pflag.FlagSet) *Loader {
	if l.err != nil {
		return l
	}

	if err := l.k.Load(posflag.Provider(flags, ".", l.k), nil); err != nil {
		l.err = err
	}

	return l
}

// Flags declares the command-line flags this loader understands, bound to
// defaults so an unset flag falls back through env/file/defaults.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("dqache", pflag.ContinueOnError)

	defaults := Default()
	flags.String("host", defaults.Host, "address to listen on")
	flags.Int("port", defaults.Port, "TCP port to listen on")
	flags.Int("capacity", defaults.Capacity, "maximum number of entries held in the cache")
	flags.String("model", string(defaults.Model), "eviction policy: DQN, LRU, or LFU")
	flags.String("directory", defaults.Directory, "storage root directory")
	flags.Bool("verbose", defaults.Verbose, "enable verbose (debug) logging")
	flags.String("admin_address", defaults.AdminAddress, "address for the admin HTTP server (/healthz, /metrics)")
	flags.String("log_level", defaults.LogLevel, "trace, debug, info, warn, error, or panic")
	flags.String("log_format", defaults.LogFormat, "console or json")
	flags.String("config", "", "optional path to a YAML config file")

	return flags
}

// Load finalizes the merge and unmarshals the result into a Config,
// validating it before returning.
func (l *Loader) Load() (Config, error) {
	var cfg Config
	if l.err != nil {
		return cfg, l.err
	}

	if err := l.k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Version = Default().Version

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
