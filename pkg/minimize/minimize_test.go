package minimize

import (
	"math"
	"testing"

	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/field"
	"github.com/modgraph/modgraph/pkg/graph"
)

// bowl is a shifted quadratic with its minimum at center, repeated across
// every coordinate. Its force is -2*(x-c).
type bowl struct {
	center float64
}

func (b bowl) Potential(x []float64) float64 {
	var pot float64
	for _, v := range x {
		d := v - b.center
		pot += d * d
	}
	return pot
}

func (b bowl) PotentialAndForces(x, forces []float64) float64 {
	for i, v := range x {
		forces[i] = -2 * (v - b.center)
	}
	return b.Potential(x)
}

// rosenbrock is the classic banana valley, slow enough that a tiny
// iteration cap cannot reach the minimum.
type rosenbrock struct{}

func (rosenbrock) Potential(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

func (rosenbrock) PotentialAndForces(x, forces []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	forces[0] = -(-2*a - 400*b*x[0])
	forces[1] = -(200 * b)
	return a*a + 100*b*b
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"gradient", "simplex"} {
		if _, err := ParseStrategy(name); err != nil {
			t.Errorf("ParseStrategy(%q): %v", name, err)
		}
	}
	if _, err := ParseStrategy("newton"); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("ParseStrategy(newton) = %v, want invalid-strategy error", err)
	}
}

func TestMinimizeRejectsUnknownStrategy(t *testing.T) {
	s := DefaultSettings()
	s.Strategy = "annealing"
	if _, err := Minimize(bowl{}, []float64{1, 2, 3}, s); err == nil {
		t.Fatal("unknown strategy should fail")
	}
}

func TestGradientFindsBowlMinimum(t *testing.T) {
	s := DefaultSettings()
	s.GradientTolerance = 1e-8

	x0 := []float64{5, -3, 7, 0.5, -9, 2}
	res, err := Minimize(bowl{center: 1.5}, x0, s)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Error("gradient run on a quadratic should converge")
	}
	for i, v := range res.X {
		if math.Abs(v-1.5) > 1e-5 {
			t.Errorf("X[%d] = %v, want 1.5", i, v)
		}
	}
	if res.Potential > 1e-9 {
		t.Errorf("final potential = %v, want ~0", res.Potential)
	}
	if x0[0] != 5 {
		t.Error("input positions were modified")
	}
}

func TestSimplexFindsBowlMinimum(t *testing.T) {
	s := DefaultSettings()
	s.Strategy = StrategySimplex
	s.FunctionTolerance = 1e-9
	s.InitialStep = 1

	res, err := Minimize(bowl{center: -2}, []float64{4, 4, 4}, s)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Error("simplex run on a quadratic should converge")
	}
	for i, v := range res.X {
		if math.Abs(v+2) > 1e-2 {
			t.Errorf("X[%d] = %v, want -2", i, v)
		}
	}
}

func TestIterationCapIsBestEffort(t *testing.T) {
	s := DefaultSettings()
	s.GradientTolerance = 1e-14
	s.MaxIterations = 2

	start := []float64{-1.2, 1}
	res, err := Minimize(rosenbrock{}, start, s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Converged {
		t.Error("two iterations on rosenbrock should not converge")
	}
	if len(res.X) != 2 {
		t.Fatalf("result has %d coordinates, want 2", len(res.X))
	}
	if res.Potential >= (rosenbrock{}).Potential(start) {
		t.Errorf("capped run did not improve: %v", res.Potential)
	}
}

func TestGradientAcceptedStepsMonotone(t *testing.T) {
	g, err := graph.Build(5)
	if err != nil {
		t.Fatal(err)
	}
	f, err := field.New(g, field.DefaultScales())
	if err != nil {
		t.Fatal(err)
	}

	x0 := []float64{
		0.1, 0.2, -0.3,
		1.1, -0.7, 0.4,
		-0.9, 0.8, 1.2,
		0.5, -1.1, -0.6,
		-0.4, 0.3, 0.9,
	}

	// The run is deterministic, so capping it at k major iterations yields
	// the k-th accepted point. The potential along that sequence must never
	// rise: the line search only accepts downhill steps.
	prev := f.Potential(x0)
	for cap := 1; cap <= 8; cap++ {
		s := DefaultSettings()
		s.GradientTolerance = 1e-14
		s.MaxIterations = cap

		res, err := Minimize(f, x0, s)
		if err != nil {
			t.Fatalf("cap %d: %v", cap, err)
		}
		if res.Potential > prev {
			t.Errorf("accepted step %d raised the potential: %v after %v",
				cap, res.Potential, prev)
		}
		prev = res.Potential
	}
}

func TestMinimizeLowersGraphPotential(t *testing.T) {
	g, err := graph.Build(5)
	if err != nil {
		t.Fatal(err)
	}
	f, err := field.New(g, field.DefaultScales())
	if err != nil {
		t.Fatal(err)
	}

	x0 := []float64{
		0.1, 0.2, -0.3,
		1.1, -0.7, 0.4,
		-0.9, 0.8, 1.2,
		0.5, -1.1, -0.6,
		-0.4, 0.3, 0.9,
	}
	before := f.Potential(x0)

	s := DefaultSettings()
	s.MaxIterations = 200
	res, err := Minimize(f, x0, s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Potential >= before {
		t.Errorf("potential %v did not drop below initial %v", res.Potential, before)
	}
	if res.Iterations == 0 {
		t.Error("no iterations recorded")
	}
}
