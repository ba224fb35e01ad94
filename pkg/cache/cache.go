// Package cache provides content-addressed caching for layout runs and
// rendered artifacts.
//
// A layout for a given modulus, seed and force configuration is fully
// deterministic, so cached entries never go stale; TTLs exist only to bound
// disk and memory usage. Three backends are provided: a file cache for CLI
// usage, a Redis cache for server deployments, and a null cache for
// disabling caching altogether.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Layouts are expensive to recompute and
// deterministic, so they keep the longest lifetime.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the minimal storage contract shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the run parameters that determine a layout. Any change
// to any field must produce a different key.
type LayoutKeyOpts struct {
	Seed          int64
	Strategy      string
	GradientTol   float64
	FunctionTol   float64
	InitialStep   float64
	EdgeScale     float64
	SumScale      float64
	FactorScale   float64
	MaxIterations int
}

// ArtifactKeyOpts identify one rendered artifact derived from a layout.
type ArtifactKeyOpts struct {
	// Format is the artifact kind: asy, dot, svg or json.
	Format string
	// Component is the component index for per-component artifacts, or -1
	// for whole-graph ones.
	Component int
}

// Keyer derives cache keys from run parameters.
type Keyer interface {
	LayoutKey(modulus int, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the full option set into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(modulus int, opts LayoutKeyOpts) string {
	return hashKey("layout", modulus, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
