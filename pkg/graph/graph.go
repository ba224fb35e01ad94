package graph

import (
	"sort"

	"github.com/modgraph/modgraph/pkg/errors"
)

// unassigned marks a node that has not yet been placed into a component.
const unassigned = -1

// Edge is a directed connection from node From to node To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is the functional digraph of squares modulo N.
//
// The zero value is not usable; construct with [Build]. A Graph is immutable
// after construction except for component labels, which [Graph.Partition]
// assigns exactly once.
type Graph struct {
	modulus int
	next    []int   // next[i] = (i*i) % modulus
	prev    [][]int // prev[i] = all j with next[j] == i
	comp    []int   // component label per node, unassigned until partitioned
	factors []int   // nontrivial divisors of modulus, 0 standing for modulus
}

// Build constructs the graph for the given modulus.
// Returns a configuration error unless n > 1.
func Build(n int) (*Graph, error) {
	if n <= 1 {
		return nil, errors.New(errors.ErrCodeInvalidModulus,
			"modulus must be greater than 1, got %d", n)
	}

	g := &Graph{
		modulus: n,
		next:    make([]int, n),
		prev:    make([][]int, n),
		comp:    make([]int, n),
		factors: Factors(n),
	}
	for i := 0; i < n; i++ {
		nxt := i * i % n
		g.next[i] = nxt
		g.prev[nxt] = append(g.prev[nxt], i)
		g.comp[i] = unassigned
	}
	return g, nil
}

// Modulus returns the modulus N that defines the node universe [0, N).
func (g *Graph) Modulus() int { return g.modulus }

// Next returns the unique successor of node i, (i*i) mod N.
func (g *Graph) Next(i int) int { return g.next[i] }

// Prev returns the predecessors of node i: every j with Next(j) == i.
// The returned slice is owned by the graph and must not be modified.
func (g *Graph) Prev(i int) []int { return g.prev[i] }

// Component returns the component label of node i, or -1 if the graph has
// not been partitioned yet.
func (g *Graph) Component(i int) int { return g.comp[i] }

// Edges returns every directed edge (i, Next(i)), including self-loops,
// ordered by source node.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, g.modulus)
	for i := 0; i < g.modulus; i++ {
		edges[i] = Edge{From: i, To: g.next[i]}
	}
	return edges
}

// Factors returns the nontrivial divisors of the graph's modulus, as
// computed by [Factors]. The returned slice is owned by the graph and must
// not be modified.
func (g *Graph) Factors() []int { return g.factors }

// Factors enumerates the nontrivial divisors of n in ascending order, with
// two conventions inherited from modular arithmetic: 0 is included as the
// stand-in for n itself, and 1 is excluded. Runs in O(sqrt n).
func Factors(n int) []int {
	f := []int{0}
	for d := 2; d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		f = append(f, d)
		if q := n / d; q != d {
			f = append(f, q)
		}
	}
	sort.Ints(f)
	return f
}
