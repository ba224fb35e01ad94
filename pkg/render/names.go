package render

import "fmt"

// SceneFilename is the Asymptote artifact name for modulus m.
func SceneFilename(m int) string {
	return fmt.Sprintf("%d.asy", m)
}

// ComponentDOTFilename is the DOT artifact name for component c of
// modulus m.
func ComponentDOTFilename(m, c int) string {
	return fmt.Sprintf("%d.%d.dot", m, c)
}

// SVGFilename is the combined SVG artifact name for modulus m.
func SVGFilename(m int) string {
	return fmt.Sprintf("%d.svg", m)
}

// LayoutFilename is the JSON layout artifact name for modulus m.
func LayoutFilename(m int) string {
	return fmt.Sprintf("%d.json", m)
}
