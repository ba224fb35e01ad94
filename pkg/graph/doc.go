// Package graph models the functional digraph induced by squaring integers
// modulo N.
//
// Every node i in [0, N) has exactly one outgoing edge, to (i*i) mod N, so
// the edge relation is a total function on the node set. The graph is built
// once from the modulus and never mutated afterward. Nodes, successors,
// predecessors and component labels are stored as integer indices into flat
// slices rather than as pointer-linked structures.
//
// The package also discovers the graph's weakly-connected components
// ([Graph.Partition]) and enumerates the nontrivial divisors of the modulus
// ([Factors]), which the force field uses to key its number-theoretic
// attraction terms.
package graph
