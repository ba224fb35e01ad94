// Package layout holds the 3-D embedding of a modular-squaring graph and
// its serialized form.
//
// Positions live in a dense N×3 matrix whose row-major backing array is
// exactly the flattened vector the minimizer works on, so no copying happens
// between the two views. The serialized [Layout] records everything needed
// to reproduce or re-render a run: the modulus, the seed, the strategy, the
// final positions, the component partition, the edge list and the outcome of
// the minimization.
package layout
