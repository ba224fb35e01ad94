package minimize

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/modgraph/modgraph/pkg/errors"
)

// Strategy selects the minimization algorithm.
type Strategy string

const (
	// StrategyGradient is conjugate-gradient line search over the analytic
	// gradient. It is the default.
	StrategyGradient Strategy = "gradient"

	// StrategySimplex is derivative-free Nelder-Mead stepping.
	StrategySimplex Strategy = "simplex"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyGradient, StrategySimplex:
		return Strategy(name), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidStrategy,
			"unknown strategy %q (must be gradient or simplex)", name)
	}
}

// Objective is the contract the driver needs from a force field: a scalar
// potential over the flattened position vector, and the per-node forces
// (negative gradient) in the same layout.
type Objective interface {
	Potential(x []float64) float64
	PotentialAndForces(x, forces []float64) float64
}

// Settings controls convergence policy. The zero value is not usable;
// start from [DefaultSettings].
type Settings struct {
	Strategy Strategy

	// GradientTolerance ends a gradient run once the gradient norm drops
	// below it.
	GradientTolerance float64

	// FunctionTolerance ends a simplex run once the objective improves by
	// less than it over ConvergeIterations consecutive iterations.
	FunctionTolerance float64

	// ConvergeIterations is the window used with FunctionTolerance.
	ConvergeIterations int

	// MaxIterations caps major iterations; reaching the cap is a soft
	// failure that still yields the best positions found.
	MaxIterations int

	// InitialStep sizes the initial simplex for the simplex strategy.
	InitialStep float64
}

// DefaultSettings returns the standard convergence policy: gradient
// strategy, gradient norm below 1e-4, simplex improvement below 0.1, and
// a generous iteration cap.
func DefaultSettings() Settings {
	return Settings{
		Strategy:           StrategyGradient,
		GradientTolerance:  1e-4,
		FunctionTolerance:  0.1,
		ConvergeIterations: 100,
		MaxIterations:      1_000_000,
		InitialStep:        10,
	}
}

// Result is the outcome of a minimization run.
type Result struct {
	// X is the best position vector found.
	X []float64
	// Potential is the objective value at X.
	Potential float64
	// Iterations is the number of major iterations performed.
	Iterations int
	// FuncEvals counts objective evaluations.
	FuncEvals int
	// Converged reports whether the tolerance was met before the
	// iteration cap.
	Converged bool
}

// Minimize drives obj from x0 to a local minimum under s. The input slice
// is not modified. Hitting the iteration cap is not an error; the best
// positions found so far are returned with Converged=false.
func Minimize(obj Objective, x0 []float64, s Settings) (*Result, error) {
	if _, err := ParseStrategy(string(s.Strategy)); err != nil {
		return nil, err
	}

	problem := optimize.Problem{
		Func: obj.Potential,
	}

	settings := &optimize.Settings{
		MajorIterations: s.MaxIterations,
	}

	var method optimize.Method
	switch s.Strategy {
	case StrategyGradient:
		problem.Grad = func(grad, x []float64) {
			obj.PotentialAndForces(x, grad)
			floats.Scale(-1, grad) // gradient is the negative of the force
		}
		settings.GradientThreshold = s.GradientTolerance
		method = &optimize.CG{}
	case StrategySimplex:
		settings.Converger = &optimize.FunctionConverge{
			Absolute:   s.FunctionTolerance,
			Iterations: s.ConvergeIterations,
		}
		method = &optimize.NelderMead{SimplexSize: s.InitialStep}
	}

	init := make([]float64, len(x0))
	copy(init, x0)

	res, err := optimize.Minimize(problem, init, settings, method)
	if err != nil && (res == nil || len(res.X) != len(x0)) {
		// No usable intermediate state; a genuine numerical failure.
		return nil, errors.Wrap(errors.ErrCodeMinimize, err, "minimization failed")
	}

	// A method error with a usable location (a failed line search, say)
	// stops the run but keeps the best point.
	converged := err == nil && statusConverged(res.Status)

	return &Result{
		X:          res.X,
		Potential:  res.F,
		Iterations: res.Stats.MajorIterations,
		FuncEvals:  res.Stats.FuncEvaluations,
		Converged:  converged,
	}, nil
}

// statusConverged reports whether the optimizer stopped because a
// convergence criterion was met, as opposed to hitting a limit.
func statusConverged(st optimize.Status) bool {
	switch st {
	case optimize.Success,
		optimize.GradientThreshold,
		optimize.FunctionThreshold,
		optimize.FunctionConvergence,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	}
	return false
}
