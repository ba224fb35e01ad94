package cli

import (
	"strconv"

	"github.com/modgraph/modgraph/pkg/cache"
	"github.com/modgraph/modgraph/pkg/config"
	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/pipeline"
)

// parseModulus parses the single positional argument of run and graph.
// The argument must be a plain base-10 integer of at least 2.
func parseModulus(arg string) (int, error) {
	m, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidModulus, "modulus must be an integer, got %q", arg)
	}
	if m <= 1 {
		return 0, errors.New(errors.ErrCodeInvalidModulus, "modulus must be at least 2, got %d", m)
	}
	return m, nil
}

// loadConfig reads the config file at path, or returns the defaults when
// no path is given.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openCache creates the cache backend selected by cfg. The disabled flag
// (--no-cache) overrides the configuration.
func openCache(cfg config.Config, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connecting to redis at %s", cfg.Cache.RedisAddr)
		}
		return c, nil
	default:
		c, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "opening cache at %s", cfg.Cache.Dir)
		}
		return c, nil
	}
}

// optionsFromConfig seeds pipeline options from the configuration. Flag
// overrides are applied on top by the individual commands.
func optionsFromConfig(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Seed:          cfg.Seed,
		Strategy:      cfg.Minimizer.Strategy,
		GradientTol:   cfg.Minimizer.GradientTolerance,
		FunctionTol:   cfg.Minimizer.FunctionTolerance,
		MaxIterations: cfg.Minimizer.MaxIterations,
		InitialStep:   cfg.Minimizer.InitialStep,
		EdgeScale:     cfg.Scales.Edge,
		SumScale:      cfg.Scales.Sum,
		FactorScale:   cfg.Scales.Factor,
	}
}
