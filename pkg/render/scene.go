package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/modgraph/modgraph/pkg/layout"
)

// Scene geometry constants. Node spheres are drawn well under half the
// unit equilibrium separation so that arrows stay visible between them.
const (
	sphereScale   = 0.25
	sphereColor   = "white"
	sphereOpacity = 0.5
	arrowGray     = 0.6
	arrowInset    = 0.25
)

// Scene renders the layout as an Asymptote script. The camera sits on the
// negative y-axis at twice the radius of the farthest node, looking at the
// origin.
func Scene(l *layout.Layout) []byte {
	var buf bytes.Buffer

	buf.WriteString("settings.outformat = \"pdf\";\n")
	buf.WriteString("settings.prc = false;\n")
	buf.WriteString("unitsize(1cm);\n")
	buf.WriteString("import three;\n")

	camera := 2 * layout.MaxRadius(l.Matrix())
	fmt.Fprintf(&buf, "currentprojection = perspective(0,%v,0);\n", -camera)

	next := make([]int, l.Modulus)
	for _, e := range l.Edges {
		next[e.From] = e.To
	}

	for i, p := range l.Positions {
		fmt.Fprintf(&buf, "draw(shift%s*scale3(%v)*unitsphere,%s+opacity(%v));\n",
			asyPos(p), sphereScale, sphereColor, sphereOpacity)
		fmt.Fprintf(&buf, "label(\"%d\",%s,black,Billboard);\n", i, asyPos(p))

		// A self-loop has no geometric extent; draw arrows only between
		// distinct nodes, inset so they do not pierce the spheres.
		j := next[i]
		if i == j {
			continue
		}
		q := l.Positions[j]
		dx, dy, dz := q[0]-p[0], q[1]-p[1], q[2]-p[2]
		d := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if d == 0 {
			continue
		}
		s := arrowInset / d
		from := [3]float64{p[0] + s*dx, p[1] + s*dy, p[2] + s*dz}
		to := [3]float64{q[0] - s*dx, q[1] - s*dy, q[2] - s*dz}
		fmt.Fprintf(&buf, "draw(%s--%s,arrow=Arrow3(),p=gray(%v),light=currentlight);\n",
			asyPos(from), asyPos(to), arrowGray)
	}

	return buf.Bytes()
}

func asyPos(p [3]float64) string {
	return fmt.Sprintf("(%v,%v,%v)", p[0], p[1], p[2])
}
