// Package pipeline provides the core modgraph pipeline.
//
// It implements the complete build → layout → render chain shared by the
// CLI and the artifact server, so both entry points get identical caching
// and identical artifacts.
//
// The pipeline consists of three stages:
//
//  1. Build: construct the squaring graph mod N and partition it into
//     weak components.
//  2. Layout: minimize the potential energy of the 3-D embedding.
//  3. Render: generate artifacts (Asymptote scene, DOT files, SVG, JSON).
//
// Building is linear in N and never cached; layouts and artifacts are
// cached content-addressed by their full parameter set.
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Modulus: 60}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scene := result.Artifacts["60.asy"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/modgraph/modgraph/pkg/cache"
	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/field"
	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/layout"
	"github.com/modgraph/modgraph/pkg/minimize"
)

// Format constants for output artifacts.
const (
	FormatAsy  = "asy"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatAsy:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// DefaultFormats are the artifacts produced when none are requested
// explicitly. SVG is opt-in since it pulls in the Graphviz engine.
var DefaultFormats = []string{FormatAsy, FormatDOT, FormatJSON}

// Options contains all configuration for one pipeline run.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Modulus is the only required field.
	Modulus int `json:"modulus"`

	// Layout options
	Seed          int64   `json:"seed,omitempty"`
	Strategy      string  `json:"strategy,omitempty"`
	GradientTol   float64 `json:"gradient_tol,omitempty"`
	FunctionTol   float64 `json:"function_tol,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	InitialStep   float64 `json:"initial_step,omitempty"`
	EdgeScale     float64 `json:"edge_scale,omitempty"`
	SumScale      float64 `json:"sum_scale,omitempty"`
	FactorScale   float64 `json:"factor_scale,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the cache on reads (results are still written).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs and server responses.
	RunID string

	// Graph is the squaring graph.
	Graph *graph.Graph

	// Layout is the finished embedding.
	Layout *layout.Layout

	// Artifacts contains rendered outputs keyed by file name.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	EdgeCount      int
	ComponentCount int
	Iterations     int
	Converged      bool
	BuildTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits per pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // all artifacts came from cache
}

// ValidateFormats checks that all requested formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format %q (must be one of: asy, dot, svg, json)", f)
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Modulus <= 1 {
		return errors.New(errors.ErrCodeInvalidModulus,
			"modulus must be at least 2, got %d", o.Modulus)
	}

	def := minimize.DefaultSettings()
	if o.Strategy == "" {
		o.Strategy = string(def.Strategy)
	}
	if _, err := minimize.ParseStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.GradientTol == 0 {
		o.GradientTol = def.GradientTolerance
	}
	if o.FunctionTol == 0 {
		o.FunctionTol = def.FunctionTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.InitialStep == 0 {
		o.InitialStep = def.InitialStep
	}

	defScales := field.DefaultScales()
	if o.EdgeScale == 0 {
		o.EdgeScale = defScales.Edge
	}
	if o.SumScale == 0 {
		o.SumScale = defScales.Sum
	}
	if o.FactorScale == 0 {
		o.FactorScale = defScales.Factor
	}

	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Settings converts the options to a minimizer configuration.
func (o *Options) Settings() minimize.Settings {
	s := minimize.DefaultSettings()
	s.Strategy = minimize.Strategy(o.Strategy)
	s.GradientTolerance = o.GradientTol
	s.FunctionTolerance = o.FunctionTol
	s.MaxIterations = o.MaxIterations
	s.InitialStep = o.InitialStep
	return s
}

// Scales converts the options to attraction scales.
func (o *Options) Scales() field.Scales {
	return field.Scales{Edge: o.EdgeScale, Sum: o.SumScale, Factor: o.FactorScale}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Seed:          o.Seed,
		Strategy:      o.Strategy,
		GradientTol:   o.GradientTol,
		FunctionTol:   o.FunctionTol,
		InitialStep:   o.InitialStep,
		EdgeScale:     o.EdgeScale,
		SumScale:      o.SumScale,
		FactorScale:   o.FactorScale,
		MaxIterations: o.MaxIterations,
	}
}

// NewRunID generates a fresh identifier for one pipeline execution.
func NewRunID() string {
	return uuid.NewString()
}
