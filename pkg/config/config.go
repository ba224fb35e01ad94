// Package config loads run configuration from TOML files.
//
// Every field has a default, so an absent file or a file that sets only a
// few keys still yields a complete configuration. Command-line flags
// override file values; the CLI layer owns that precedence.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/modgraph/modgraph/pkg/errors"
)

// ScalesConfig holds the attraction scales of the force field.
type ScalesConfig struct {
	Edge   float64 `toml:"edge"`
	Sum    float64 `toml:"sum"`
	Factor float64 `toml:"factor"`
}

// MinimizerConfig holds the convergence policy.
type MinimizerConfig struct {
	Strategy          string  `toml:"strategy"`
	GradientTolerance float64 `toml:"gradient_tolerance"`
	FunctionTolerance float64 `toml:"function_tolerance"`
	MaxIterations     int     `toml:"max_iterations"`
	InitialStep       float64 `toml:"initial_step"`
}

// CacheConfig selects and parameterizes the cache backend.
type CacheConfig struct {
	// Backend is file, redis or none.
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig holds the artifact server address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Config is the full run configuration.
type Config struct {
	Seed      int64           `toml:"seed"`
	Output    string          `toml:"output"`
	Scales    ScalesConfig    `toml:"scales"`
	Minimizer MinimizerConfig `toml:"minimizer"`
	Cache     CacheConfig     `toml:"cache"`
	Server    ServerConfig    `toml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Seed:   42,
		Output: ".",
		Scales: ScalesConfig{Edge: 1.5, Sum: 15, Factor: 150},
		Minimizer: MinimizerConfig{
			Strategy:          "gradient",
			GradientTolerance: 1e-4,
			FunctionTolerance: 0.1,
			MaxIterations:     1_000_000,
			InitialStep:       10,
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     defaultCacheDir(),
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are rejected so
// that typos surface instead of silently falling back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "loading config from %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scales.Edge <= 0 || c.Scales.Sum <= 0 || c.Scales.Factor <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "attraction scales must be positive")
	}
	if c.Minimizer.MaxIterations <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_iterations must be positive")
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	return nil
}

func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return base + "/modgraph"
	}
	return ".modgraph-cache"
}
