package field

import (
	"math"
	"math/rand"
	"testing"

	"github.com/modgraph/modgraph/pkg/graph"
)

func buildField(t *testing.T, n int, s Scales) *Field {
	t.Helper()
	g, err := graph.Build(n)
	if err != nil {
		t.Fatalf("Build(%d): %v", n, err)
	}
	f, err := New(g, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func randomPositions(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, 3*n)
	for i := range x {
		x[i] = float64(n) * (rng.Float64() - 0.5)
	}
	return x
}

func TestNewRejectsBadScales(t *testing.T) {
	g, err := graph.Build(5)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []Scales{
		{Edge: 0, Sum: 15, Factor: 150},
		{Edge: 1.5, Sum: -1, Factor: 150},
		{Edge: 1.5, Sum: 15, Factor: 0},
	} {
		if _, err := New(g, s); err == nil {
			t.Errorf("New with scales %+v should fail", s)
		}
	}
}

func TestTwoNodePotential(t *testing.T) {
	// N=2 has only self-loop edges and no divisor-sum pairs, so the only
	// terms between nodes 0 and 1 are the repulsion and the factor
	// attraction of node 0 (index 0 stands for the modulus itself):
	// pot(r) = 1/r + (1/150)*r^2/2.
	f := buildField(t, 2, DefaultScales())

	x := []float64{0, 0, 0, 1, 0, 0}
	forces := make([]float64, len(x))
	pot := f.PotentialAndForces(x, forces)

	wantPot := 1.0 + 0.5/150
	if math.Abs(pot-wantPot) > 1e-12 {
		t.Errorf("potential = %v, want %v", pot, wantPot)
	}

	// Force on node 0 points away from node 1 (repulsion dominates at
	// unit distance): -1 + 1/150 along +x.
	wantFx := -1.0 + 1.0/150
	if math.Abs(forces[0]-wantFx) > 1e-12 {
		t.Errorf("force[0].x = %v, want %v", forces[0], wantFx)
	}
	for _, idx := range []int{1, 2, 4, 5} {
		if forces[idx] != 0 {
			t.Errorf("force component %d = %v, want 0", idx, forces[idx])
		}
	}
}

func TestForcesSumToZero(t *testing.T) {
	// All terms are internal pair forces, so the net momentum transfer
	// over the whole system must vanish.
	for _, n := range []int{5, 8, 12} {
		f := buildField(t, n, DefaultScales())
		x := randomPositions(n, 7)
		forces := make([]float64, len(x))
		f.PotentialAndForces(x, forces)

		for k := 0; k < 3; k++ {
			var total float64
			for i := 0; i < n; i++ {
				total += forces[3*i+k]
			}
			if math.Abs(total) > 1e-9 {
				t.Errorf("N=%d: net force component %d = %v, want ~0", n, k, total)
			}
		}
	}
}

func TestForcesMatchNegativeGradient(t *testing.T) {
	f := buildField(t, 6, DefaultScales())
	x := randomPositions(6, 11)
	forces := make([]float64, len(x))
	f.PotentialAndForces(x, forces)

	const h = 1e-6
	for i := range x {
		orig := x[i]
		x[i] = orig + h
		up := f.Potential(x)
		x[i] = orig - h
		down := f.Potential(x)
		x[i] = orig

		grad := (up - down) / (2 * h)
		// force = -gradient
		if diff := math.Abs(forces[i] + grad); diff > 1e-4*(1+math.Abs(grad)) {
			t.Errorf("component %d: force = %v, -finite-difference gradient = %v",
				i, forces[i], -grad)
		}
	}
}

func TestPotentialDivergesAtShortRange(t *testing.T) {
	f := buildField(t, 2, DefaultScales())

	var last float64
	for i, r := range []float64{1, 0.1, 0.01, 0.001} {
		pot := f.Potential([]float64{0, 0, 0, r, 0, 0})
		if math.IsInf(pot, 0) || math.IsNaN(pot) {
			t.Fatalf("potential not finite at r=%v", r)
		}
		if i > 0 && pot <= last {
			t.Errorf("potential %v at r=%v should exceed %v at larger r", pot, r, last)
		}
		last = pot
	}
}

func TestCoincidentNodesGuarded(t *testing.T) {
	f := buildField(t, 3, DefaultScales())

	// Two nodes at exactly the same point: clamped, never NaN or Inf.
	x := []float64{1, 2, 3, 1, 2, 3, 0, 0, 0}
	forces := make([]float64, len(x))
	pot := f.PotentialAndForces(x, forces)
	if math.IsNaN(pot) || math.IsInf(pot, 0) {
		t.Fatalf("potential = %v with coincident nodes", pot)
	}
	for i, v := range forces {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("force component %d = %v with coincident nodes", i, v)
		}
	}
}

func TestEdgeAttractionTightensPairs(t *testing.T) {
	// In N=5, next(2)=4, while nodes 2 and 3 share no edge (next(3)=4).
	// With identical geometry, the edge-connected pair must carry more
	// attractive (less repulsive) force along the separation axis.
	f := buildField(t, 5, DefaultScales())

	k24 := f.springConstant(2, 4)
	k23 := f.springConstant(2, 3)
	if k24 <= k23 {
		t.Errorf("spring constants: edge pair (2,4) = %v, non-edge pair (2,3) = %v", k24, k23)
	}
}

func TestSumAttractionAtZeroMod(t *testing.T) {
	// For N=8 the pair (3,5) sums to 0 mod 8, which carries the maximal
	// sum attraction 1/Sum. Pair (3,6) sums to 1, which matches no
	// divisor of 8, so its sum term is zero.
	f := buildField(t, 8, DefaultScales())

	kZeroSum := f.springConstant(3, 5)
	kNoSum := f.springConstant(3, 6)
	if kZeroSum < 1/f.scales.Sum-1e-12 {
		t.Errorf("pair (3,5) spring constant %v should include the full 1/Sum term", kZeroSum)
	}
	if kZeroSum <= kNoSum {
		t.Errorf("zero-sum pair (3,5) = %v should out-attract (3,6) = %v", kZeroSum, kNoSum)
	}
}
