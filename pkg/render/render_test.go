package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/layout"
)

func buildLayout(t *testing.T, n int) (*graph.Graph, *layout.Layout) {
	t.Helper()
	g, err := graph.Build(n)
	if err != nil {
		t.Fatalf("Build(%d): %v", n, err)
	}
	comps, err := g.Partition()
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	return g, layout.New(g, layout.RandomPositions(n, 42), comps)
}

func TestSceneStructure(t *testing.T) {
	// N=5: next = [0,1,4,4,1]. Nodes 0 and 1 are self-loops, so the scene
	// carries 5 spheres, 5 labels and 3 arrows.
	_, l := buildLayout(t, 5)
	scene := string(Scene(l))

	for _, want := range []string{
		"settings.outformat = \"pdf\";",
		"settings.prc = false;",
		"unitsize(1cm);",
		"import three;",
		"currentprojection = perspective(0,",
	} {
		if !strings.Contains(scene, want) {
			t.Errorf("scene missing %q", want)
		}
	}

	if got := strings.Count(scene, "unitsphere"); got != 5 {
		t.Errorf("scene has %d spheres, want 5", got)
	}
	for i := 0; i < 5; i++ {
		if !strings.Contains(scene, fmt.Sprintf("label(\"%d\",", i)) {
			t.Errorf("scene missing label for node %d", i)
		}
	}
	if got := strings.Count(scene, "Arrow3()"); got != 3 {
		t.Errorf("scene has %d arrows, want 3 (self-loops are skipped)", got)
	}
}

func TestSceneCameraDistance(t *testing.T) {
	g, err := graph.Build(2)
	if err != nil {
		t.Fatal(err)
	}
	comps, err := g.Partition()
	if err != nil {
		t.Fatal(err)
	}
	pos := layout.FromVector([]float64{0, 0, 0, 3, 4, 0})
	l := layout.New(g, pos, comps)

	// Farthest node sits at radius 5, so the camera sits at y = -10.
	if scene := string(Scene(l)); !strings.Contains(scene, "perspective(0,-10,0);") {
		t.Errorf("camera line not found in scene:\n%s", scene)
	}
}

func TestComponentDOT(t *testing.T) {
	g, _ := buildLayout(t, 8)
	comps, err := g.Partition()
	if err != nil {
		t.Fatal(err)
	}

	// Even component of N=8: {0,2,4,6} with next 0,4,0,4.
	dot := ComponentDOT(g, comps[0])
	for _, want := range []string{"digraph G {", "0 -> 0;", "2 -> 4;", "4 -> 0;", "6 -> 4;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("component DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "1 ->") || strings.Contains(dot, "3 ->") {
		t.Error("component DOT leaked odd nodes")
	}
}

func TestCombinedDOT(t *testing.T) {
	g, _ := buildLayout(t, 5)
	dot := CombinedDOT(g)
	for i := 0; i < 5; i++ {
		if !strings.Contains(dot, fmt.Sprintf("%d -> ", i)) {
			t.Errorf("combined DOT missing edge from %d:\n%s", i, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g, _ := buildLayout(t, 5)
	svg, err := RenderSVG(CombinedDOT(g))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Error("output is not SVG")
	}
	for i := 0; i < 5; i++ {
		if !strings.Contains(out, fmt.Sprintf(">%d<", i)) {
			t.Errorf("SVG missing node label %d", i)
		}
	}
}

func TestFilenames(t *testing.T) {
	if got := SceneFilename(60); got != "60.asy" {
		t.Errorf("SceneFilename = %q", got)
	}
	if got := ComponentDOTFilename(60, 2); got != "60.2.dot" {
		t.Errorf("ComponentDOTFilename = %q", got)
	}
	if got := SVGFilename(60); got != "60.svg" {
		t.Errorf("SVGFilename = %q", got)
	}
	if got := LayoutFilename(60); got != "60.json" {
		t.Errorf("LayoutFilename = %q", got)
	}
}
