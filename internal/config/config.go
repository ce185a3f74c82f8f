// Package config handles hashlang.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up next to scripts
const FileName = "hashlang.toml"

// DefaultReadBuffer is the max number of bytes a single tcp#readstr returns
const DefaultReadBuffer = 4096

const (
	DefaultMaxArrayGrowth = 1 << 16
	DefaultInlineCache    = 256
)

// Config represents a hashlang.toml file.
type Config struct {
	Log     Log     `toml:"log"`
	TCP     TCP     `toml:"tcp"`
	RNG     RNG     `toml:"rng"`
	Runtime Runtime `toml:"runtime"`

	// Path of the loaded file, empty when defaults are used.
	Path string `toml:"-"`
}

// Log configures the runtime logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// TCP configures the tcp# builtins.
type TCP struct {
	ReadBuffer int `toml:"read_buffer"`
}

// RNG configures the rng# builtins. A zero seed means time based.
type RNG struct {
	Seed int64 `toml:"seed"`
}

// Runtime configures execution units.
type Runtime struct {
	WaitForThreads bool `toml:"wait_for_threads"`

	// MaxArrayGrowth bounds how many elements a single array#set may add.
	MaxArrayGrowth int `toml:"max_array_growth"`

	// InlineCache is the number of parsed #= expressions kept.
	InlineCache int `toml:"inline_cache"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:  "warning",
			Format: "text",
		},
		TCP: TCP{
			ReadBuffer: DefaultReadBuffer,
		},
		Runtime: Runtime{
			WaitForThreads: true,
			MaxArrayGrowth: DefaultMaxArrayGrowth,
			InlineCache:    DefaultInlineCache,
		},
	}
}

// Load parses the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	return c, nil
}

// FindAndLoad walks up from startDir to find a hashlang.toml file,
// then loads it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks values that cannot be expressed by the toml types.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.TCP.ReadBuffer <= 0 {
		return fmt.Errorf("tcp.read_buffer must be positive, got %d", c.TCP.ReadBuffer)
	}
	if c.Runtime.MaxArrayGrowth <= 0 {
		return fmt.Errorf("runtime.max_array_growth must be positive, got %d", c.Runtime.MaxArrayGrowth)
	}
	if c.Runtime.InlineCache <= 0 {
		return fmt.Errorf("runtime.inline_cache must be positive, got %d", c.Runtime.InlineCache)
	}
	return nil
}
