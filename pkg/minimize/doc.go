// Package minimize drives a potential-energy objective to a local minimum.
//
// The full N×3 position state is treated as a single point in 3N-dimensional
// space. The package supplies the objective, gradient and convergence policy
// and consumes the step-taking algorithm from gonum's optimize package as a
// black box. Two interchangeable strategies are offered, selected at
// construction time rather than by build configuration:
//
//   - [StrategyGradient]: conjugate-gradient line search using the analytic
//     gradient (the negative of the per-node forces), terminating when the
//     gradient norm falls below a tolerance;
//   - [StrategySimplex]: derivative-free Nelder-Mead, terminating when the
//     objective stops improving within a tolerance.
//
// Convergence is best-effort: when the iteration cap is reached first, the
// best positions found so far are returned with Converged set to false.
// A cap-limited layout is still a usable layout; only genuine numerical
// failures surface as errors.
package minimize
