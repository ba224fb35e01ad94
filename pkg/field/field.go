package field

import (
	"math"

	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/graph"
)

// minDistance is the floor applied to pair separation before division.
// Coincident nodes cannot arise from a continuous random initial placement,
// but the evaluation must never divide by zero.
const minDistance = 1e-9

// Scales holds the relative strengths of the three attraction terms. Each
// value divides the corresponding spring constant, so larger means weaker.
// The absolute scale is fixed by the universal repulsion, which has unit
// strength at unit separation.
type Scales struct {
	// Edge scales the attraction between nodes joined by a directed edge.
	Edge float64
	// Sum scales the attraction between pairs whose index sum relates to a
	// divisor of the modulus.
	Sum float64
	// Factor scales the attraction applied when a node's own index relates
	// to a divisor of the modulus.
	Factor float64
}

// DefaultScales returns the standard attraction scales.
func DefaultScales() Scales {
	return Scales{Edge: 1.5, Sum: 15, Factor: 150}
}

// Field evaluates the potential and forces for one graph at fixed scales.
type Field struct {
	g       *graph.Graph
	scales  Scales
	factors []int // divisor table, computed once and shared per run
}

// New creates a force field for g. The divisor table is taken from the
// graph, so it is enumerated once per run regardless of how many times the
// field is evaluated.
func New(g *graph.Graph, s Scales) (*Field, error) {
	if s.Edge <= 0 || s.Sum <= 0 || s.Factor <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidScale,
			"attraction scales must be positive, got edge=%g sum=%g factor=%g",
			s.Edge, s.Sum, s.Factor)
	}
	return &Field{g: g, scales: s, factors: g.Factors()}, nil
}

// Scales returns the attraction scales the field was built with.
func (f *Field) Scales() Scales { return f.scales }

// Potential evaluates the total potential at x, the flattened N×3 position
// state (x[3i+k] is coordinate k of node i).
func (f *Field) Potential(x []float64) float64 {
	return f.PotentialAndForces(x, nil)
}

// PotentialAndForces evaluates the total potential at x and, if forces is
// non-nil, fills it with the net force on each node in the same flattened
// layout. forces must have length len(x). The force is the negative
// gradient of the potential.
func (f *Field) PotentialAndForces(x []float64, forces []float64) float64 {
	n := f.g.Modulus()
	if forces != nil {
		for i := range forces {
			forces[i] = 0
		}
	}

	var pot float64
	for i := 0; i < n; i++ {
		xi, yi, zi := x[3*i], x[3*i+1], x[3*i+2]
		for j := i + 1; j < n; j++ {
			dx := x[3*j] - xi
			dy := x[3*j+1] - yi
			dz := x[3*j+2] - zi
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if r < minDistance {
				r = minDistance
			}

			// Repulsion: potential 1/r, force -u/r^2 on node i.
			pot += 1 / r
			mag := -1 / (r * r)

			// Attractions: a single Hookean spring with the summed
			// constant k gives potential k*r^2/2 and force u*k*r.
			k := f.springConstant(i, j)
			pot += 0.5 * k * r * r
			mag += k * r

			if forces != nil {
				s := mag / r // scale applied to the raw displacement
				forces[3*i] += s * dx
				forces[3*i+1] += s * dy
				forces[3*i+2] += s * dz
				forces[3*j] -= s * dx
				forces[3*j+1] -= s * dy
				forces[3*j+2] -= s * dz
			}
		}
	}
	return pot
}

// springConstant sums the Hookean constants of every attraction term that
// applies to the pair (i, j).
func (f *Field) springConstant(i, j int) float64 {
	var k float64
	n := f.g.Modulus()
	m := float64(n)

	if f.g.Next(i) == j || f.g.Next(j) == i {
		k += 1 / f.scales.Edge
	}

	// Attraction keyed to (i+j) mod N. Proportional to the divisor, except
	// that a sum of exactly 0 mod N attracts in proportion to N itself.
	sum := (i + j) % n
	c := 1 / f.scales.Sum
	b := c / m
	for _, d := range f.factors {
		if sum == d {
			if d == 0 {
				k += c
			} else {
				k += float64(d) * b
			}
		}
		if n-sum == d {
			k += float64(d) * b
		}
	}

	// Attraction keyed to i and j individually, same proportionality.
	c = 1 / f.scales.Factor
	b = c / m
	for _, d := range f.factors {
		if i == d || j == d {
			if d == 0 {
				k += c
			} else {
				k += float64(d) * b
			}
		}
		if i == n-d || j == n-d {
			k += float64(d) * b
		}
	}

	return k
}
