package layout

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/graph"
)

// DefaultSeed is the seed used when the caller does not supply one, so that
// repeated runs over the same modulus produce the same embedding.
const DefaultSeed int64 = 42

// RandomPositions returns an N×3 matrix of node positions drawn uniformly
// from the cube [-n/2, n/2]^3. The cube grows with the modulus so that the
// initial density, and with it the initial potential, stays roughly constant
// across moduli.
func RandomPositions(n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	pos := mat.NewDense(n, 3, nil)
	half := float64(n) / 2
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			pos.Set(i, k, half*(2*rng.Float64()-1))
		}
	}
	return pos
}

// Flatten returns the row-major backing slice of pos. Writes through the
// slice are visible in the matrix, which lets a minimizer work on the
// positions in place.
func Flatten(pos *mat.Dense) []float64 {
	return pos.RawMatrix().Data
}

// FromVector wraps a flattened 3n-vector as an n×3 position matrix sharing
// the same backing array.
func FromVector(x []float64) *mat.Dense {
	return mat.NewDense(len(x)/3, 3, x)
}

// MaxRadius returns the largest distance of any node from the origin. The
// renderer uses it to place the camera.
func MaxRadius(pos *mat.Dense) float64 {
	rows, _ := pos.Dims()
	var max float64
	for i := 0; i < rows; i++ {
		x, y, z := pos.At(i, 0), pos.At(i, 1), pos.At(i, 2)
		if r := math.Sqrt(x*x + y*y + z*z); r > max {
			max = r
		}
	}
	return max
}

// Layout is the serialized result of one embedding run.
type Layout struct {
	Modulus    int             `json:"modulus"`
	Seed       int64           `json:"seed"`
	Strategy   string          `json:"strategy"`
	Positions  [][3]float64    `json:"positions"`
	Components [][]int         `json:"components"`
	Edges      []graph.Edge    `json:"edges"`
	Potential  float64         `json:"potential"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
}

// New assembles a Layout from a finished run. The position matrix is copied
// into the serializable form, so the caller may keep mutating it.
func New(g *graph.Graph, pos *mat.Dense, components [][]int) *Layout {
	n := g.Modulus()
	positions := make([][3]float64, n)
	for i := 0; i < n; i++ {
		positions[i] = [3]float64{pos.At(i, 0), pos.At(i, 1), pos.At(i, 2)}
	}
	return &Layout{
		Modulus:    n,
		Positions:  positions,
		Components: components,
		Edges:      g.Edges(),
	}
}

// Matrix returns the positions as a dense n×3 matrix.
func (l *Layout) Matrix() *mat.Dense {
	pos := mat.NewDense(len(l.Positions), 3, nil)
	for i, p := range l.Positions {
		pos.Set(i, 0, p[0])
		pos.Set(i, 1, p[1])
		pos.Set(i, 2, p[2])
	}
	return pos
}

// Marshal serializes the layout as indented JSON.
func (l *Layout) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshaling layout")
	}
	return data, nil
}

// Unmarshal parses a serialized layout and checks its internal consistency.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing layout")
	}
	if l.Modulus != len(l.Positions) {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"layout has %d positions for modulus %d", len(l.Positions), l.Modulus)
	}
	return &l, nil
}

// WriteFile writes the layout to path as JSON.
func (l *Layout) WriteFile(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "writing layout to %s", path)
	}
	return nil
}

// ReadFile loads a layout previously written with WriteFile.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading layout from %s", path)
	}
	return Unmarshal(data)
}
