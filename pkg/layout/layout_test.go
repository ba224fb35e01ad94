package layout

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/modgraph/modgraph/pkg/graph"
)

func TestRandomPositionsDeterministic(t *testing.T) {
	a := RandomPositions(8, 42)
	b := RandomPositions(8, 42)
	c := RandomPositions(8, 43)

	rows, cols := a.Dims()
	if rows != 8 || cols != 3 {
		t.Fatalf("dims = %dx%d, want 8x3", rows, cols)
	}

	var differs bool
	for i := 0; i < rows; i++ {
		for k := 0; k < cols; k++ {
			if a.At(i, k) != b.At(i, k) {
				t.Errorf("same seed diverged at (%d,%d)", i, k)
			}
			if a.At(i, k) != c.At(i, k) {
				differs = true
			}
		}
	}
	if !differs {
		t.Error("different seeds produced identical positions")
	}
}

func TestRandomPositionsBounds(t *testing.T) {
	n := 20
	pos := RandomPositions(n, 1)
	half := float64(n) / 2
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			if v := pos.At(i, k); v < -half || v > half {
				t.Errorf("position (%d,%d) = %v outside [-%v, %v]", i, k, v, half, half)
			}
		}
	}
}

func TestFlattenSharesBacking(t *testing.T) {
	pos := RandomPositions(4, 42)
	x := Flatten(pos)
	if len(x) != 12 {
		t.Fatalf("flattened length = %d, want 12", len(x))
	}

	x[5] = 99 // node 1, z coordinate
	if pos.At(1, 2) != 99 {
		t.Error("write through flattened view not visible in matrix")
	}

	back := FromVector(x)
	if back.At(1, 2) != 99 {
		t.Error("FromVector lost the shared backing")
	}
}

func TestMaxRadius(t *testing.T) {
	pos := FromVector([]float64{
		0, 0, 0,
		3, 4, 0,
		1, 1, 1,
	})
	if r := MaxRadius(pos); math.Abs(r-5) > 1e-12 {
		t.Errorf("MaxRadius = %v, want 5", r)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g, err := graph.Build(8)
	if err != nil {
		t.Fatal(err)
	}
	comps, err := g.Partition()
	if err != nil {
		t.Fatal(err)
	}

	l := New(g, RandomPositions(8, 42), comps)
	l.Seed = 42
	l.Strategy = "gradient"
	l.Potential = 12.5
	l.Iterations = 300
	l.Converged = true

	path := filepath.Join(t.TempDir(), "8.json")
	if err := l.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Modulus != 8 || got.Seed != 42 || got.Strategy != "gradient" {
		t.Errorf("round trip lost run parameters: %+v", got)
	}
	if !got.Converged || got.Iterations != 300 || got.Potential != 12.5 {
		t.Errorf("round trip lost outcome fields: %+v", got)
	}
	if len(got.Positions) != 8 || len(got.Components) != 2 {
		t.Errorf("round trip lost geometry: %d positions, %d components",
			len(got.Positions), len(got.Components))
	}
	for i, p := range got.Positions {
		if p != l.Positions[i] {
			t.Errorf("position %d = %v, want %v", i, p, l.Positions[i])
		}
	}
}

func TestUnmarshalRejectsInconsistentLayout(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"modulus": 5, "positions": [[0,0,0]]}`)); err == nil {
		t.Error("layout with mismatched position count should fail")
	}
	if _, err := Unmarshal([]byte(`not json`)); err == nil {
		t.Error("malformed JSON should fail")
	}
}
