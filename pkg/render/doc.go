// Package render turns a finished layout into viewable artifacts.
//
// Three artifact families are produced:
//
//   - an Asymptote scene of the full 3-D embedding, one sphere and numeric
//     label per node and one arrow per directed edge, ready for offline
//     rendering to PDF;
//   - Graphviz DOT text, either one file per weak component or a single
//     combined digraph;
//   - an SVG of the combined digraph, rendered in-process with Graphviz.
//
// Artifact file names are derived from the modulus alone, so repeated runs
// over the same modulus overwrite their predecessors.
package render
