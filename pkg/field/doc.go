// Package field computes the potential energy and per-node forces that
// drive the layout of a modular-squaring graph.
//
// Every unordered pair of nodes interacts through four terms:
//
//   - a universal inverse-square repulsion, which prevents collapse and
//     fixes the length scale (unit separation carries unit repulsion);
//   - a Hookean attraction along each directed edge of the graph;
//   - a Hookean attraction whenever (i+j) mod N is 0, a nontrivial divisor
//     of N, or N minus such a divisor;
//   - a Hookean attraction whenever i or j is itself 0, a nontrivial
//     divisor of N, or N minus such a divisor.
//
// The potential is the sum over all unordered pairs; the force on a node is
// the negative gradient of the potential with respect to that node's
// position. A [Field] is a pure function of a position snapshot: it keeps no
// mutable state between evaluations, and the caller owns the force buffer.
package field
