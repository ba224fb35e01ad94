package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/graph"
)

// ComponentDOT converts one weak component to Graphviz DOT format. Only
// edges whose source lies in the component are emitted; by construction the
// target then lies in the component as well.
func ComponentDOT(g *graph.Graph, members []int) string {
	var buf bytes.Buffer
	writeDOTHeader(&buf)
	for _, i := range members {
		fmt.Fprintf(&buf, "  %d -> %d;\n", i, g.Next(i))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// CombinedDOT converts the whole graph to a single DOT digraph. Graphviz
// lays disconnected components out side by side, which makes this the
// natural input for the SVG artifact.
func CombinedDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	writeDOTHeader(&buf)
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTHeader(buf *bytes.Buffer) {
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the image starts at the
// origin with explicit pixel dimensions, which embeds cleanly in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
