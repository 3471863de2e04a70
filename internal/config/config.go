// Package config loads timeid configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eykd/timeid-go/internal/prng"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "timeid.yaml"

// EnvPath names the environment variable that overrides DefaultPath.
const EnvPath = "TIMEID_CONFIG"

// Config is the top-level configuration.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Append    AppendConfig    `yaml:"append"`
}

// GeneratorConfig holds ID generator settings.
type GeneratorConfig struct {
	// PoolBlocks is the number of ChaCha20 blocks generated per rekey.
	PoolBlocks int `yaml:"pool_blocks"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxBatch caps the count parameter of a batch request.
	MaxBatch int `yaml:"max_batch"`
}

// AppendConfig holds settings for appending IDs to a file.
type AppendConfig struct {
	// LockTimeout bounds the wait for the advisory lock on the target file.
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. An empty path means the EnvPath
// variable or, failing that, DefaultPath; a missing default file yields the
// defaults, while a missing explicit file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the
// result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills in any fields still at their zero value.
func applyDefaults(cfg *Config) {
	if cfg.Generator.PoolBlocks == 0 {
		cfg.Generator.PoolBlocks = prng.DefaultPoolBlocks
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxBatch == 0 {
		cfg.Server.MaxBatch = 1000
	}
	if cfg.Append.LockTimeout == 0 {
		cfg.Append.LockTimeout = 5 * time.Second
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Generator.PoolBlocks < 1 || c.Generator.PoolBlocks > prng.MaxPoolBlocks {
		return fieldError("generator.pool_blocks", fmt.Sprintf("must be between 1 and %d", prng.MaxPoolBlocks))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fieldError("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fieldError("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	if c.Server.MaxBatch < 1 {
		return fieldError("server.max_batch", "must be positive")
	}
	if c.Append.LockTimeout < 0 {
		return fieldError("append.lock_timeout", "must not be negative")
	}
	return nil
}

// ErrInvalid is matched by every validation error.
var ErrInvalid = errors.New("invalid configuration")

func fieldError(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, field, msg)
}
