package graph

import (
	"sort"

	"github.com/modgraph/modgraph/pkg/errors"
)

// Partition discovers the weakly-connected components of the graph and
// labels every node with its component id.
//
// Components are found by treating the directed edges as undirected:
// starting from each unvisited node, a traversal follows the node's
// successor and all of its predecessors until no new nodes are discovered.
// The traversal uses an explicit work-list rather than recursion, so the
// stack depth is bounded for any modulus.
//
// The returned components partition [0, N) exactly: every node appears in
// exactly one component, and nodes within a component are sorted ascending.
// Component ids are assigned in order of the smallest node they contain.
//
// Partition is idempotent: calling it again recomputes the same component
// sets. If the traversal ever reaches a node already labeled with a
// different component, that is a defect in the traversal itself, and
// Partition aborts with an INTERNAL_COMPONENT_CONFLICT error instead of
// overwriting the conflicting label.
func (g *Graph) Partition() ([][]int, error) {
	n := g.modulus
	comp := make([]int, n)
	for i := range comp {
		comp[i] = unassigned
	}

	var components [][]int
	stack := make([]int, 0, n)

	for start := 0; start < n; start++ {
		if comp[start] != unassigned {
			continue
		}
		id := len(components)
		var members []int

		stack = append(stack[:0], start)
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch comp[node] {
			case id:
				continue // already collected in this component
			case unassigned:
				// fall through and claim it
			default:
				return nil, errors.New(errors.ErrCodeComponentConflict,
					"node %d already in component %d while building component %d",
					node, comp[node], id)
			}

			comp[node] = id
			members = append(members, node)
			stack = append(stack, g.next[node])
			stack = append(stack, g.prev[node]...)
		}

		sort.Ints(members)
		components = append(components, members)
	}

	copy(g.comp, comp)
	return components, nil
}
