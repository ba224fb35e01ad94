package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/pkg/cache"
	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/field"
	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/layout"
	"github.com/modgraph/modgraph/pkg/minimize"
	"github.com/modgraph/modgraph/pkg/render"
)

// Runner encapsulates pipeline execution with caching. It is stateless
// apart from the cache and logger, so one Runner can serve concurrent
// executions with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer gets the DefaultKeyer; a nil
// cache gets the NullCache (caching disabled); a nil logger gets the
// package default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     NewRunID(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	g, components, err := r.Build(opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.Modulus()
	result.Stats.EdgeCount = len(g.Edges())
	result.Stats.ComponentCount = len(components)

	r.Logger.Info("built graph",
		"run", result.RunID,
		"modulus", opts.Modulus,
		"components", len(components),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, components, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Iterations = l.Iterations
	result.Stats.Converged = l.Converged
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"run", result.RunID,
		"potential", l.Potential,
		"iterations", l.Iterations,
		"converged", l.Converged,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"run", result.RunID,
		"formats", opts.Formats,
		"files", len(artifacts),
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build constructs the squaring graph and its weak components. The stage
// is linear in the modulus and never cached.
func (r *Runner) Build(opts Options) (*graph.Graph, [][]int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	g, err := graph.Build(opts.Modulus)
	if err != nil {
		return nil, nil, err
	}
	components, err := g.Partition()
	if err != nil {
		return nil, nil, err
	}
	return g, components, nil
}

// ComputeLayoutWithCacheInfo minimizes the embedding with caching and
// reports whether the layout came from the cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *graph.Graph, components [][]int, opts Options) (*layout.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(opts.Modulus, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
	}

	l, err := computeLayout(g, components, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := l.Marshal(); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, components [][]int, opts Options) (*layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, components, opts)
	return l, err
}

// computeLayout runs the minimizer from a seeded random placement.
func computeLayout(g *graph.Graph, components [][]int, opts Options) (*layout.Layout, error) {
	f, err := field.New(g, opts.Scales())
	if err != nil {
		return nil, err
	}

	pos := layout.RandomPositions(g.Modulus(), opts.Seed)
	res, err := minimize.Minimize(f, layout.Flatten(pos), opts.Settings())
	if err != nil {
		return nil, err
	}

	l := layout.New(g, layout.FromVector(res.X), components)
	l.Seed = opts.Seed
	l.Strategy = opts.Strategy
	l.Potential = res.Potential
	l.Iterations = res.Iterations
	l.Converged = res.Converged
	return l, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := l.Marshal()
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	names, err := artifactNames(l, opts.Formats)
	if err != nil {
		return nil, false, err
	}

	// Serve from cache only when every artifact is present.
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(names))
		allCached := true
		for name, key := range names {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, key)
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[name] = data
		}
		if allCached {
			return artifacts, true, nil
		}
	}

	rendered, err := renderArtifacts(g, l, opts.Formats)
	if err != nil {
		return nil, false, err
	}

	for name, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, names[name])
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	return artifacts, err
}

// artifactNames maps artifact file names to their cache key options for
// the requested formats.
func artifactNames(l *layout.Layout, formats []string) (map[string]cache.ArtifactKeyOpts, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	names := make(map[string]cache.ArtifactKeyOpts)
	for _, format := range formats {
		switch format {
		case FormatAsy:
			names[render.SceneFilename(l.Modulus)] = cache.ArtifactKeyOpts{Format: format, Component: -1}
		case FormatDOT:
			for c := range l.Components {
				names[render.ComponentDOTFilename(l.Modulus, c)] = cache.ArtifactKeyOpts{Format: format, Component: c}
			}
		case FormatSVG:
			names[render.SVGFilename(l.Modulus)] = cache.ArtifactKeyOpts{Format: format, Component: -1}
		case FormatJSON:
			names[render.LayoutFilename(l.Modulus)] = cache.ArtifactKeyOpts{Format: format, Component: -1}
		}
	}
	return names, nil
}

// renderArtifacts produces the artifact bytes for the requested formats.
func renderArtifacts(g *graph.Graph, l *layout.Layout, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	for _, format := range formats {
		switch format {
		case FormatAsy:
			artifacts[render.SceneFilename(l.Modulus)] = render.Scene(l)
		case FormatDOT:
			for c, members := range l.Components {
				artifacts[render.ComponentDOTFilename(l.Modulus, c)] = []byte(render.ComponentDOT(g, members))
			}
		case FormatSVG:
			svg, err := render.RenderSVG(render.CombinedDOT(g))
			if err != nil {
				return nil, err
			}
			artifacts[render.SVGFilename(l.Modulus)] = svg
		case FormatJSON:
			data, err := l.Marshal()
			if err != nil {
				return nil, err
			}
			artifacts[render.LayoutFilename(l.Modulus)] = data
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q", format)
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
