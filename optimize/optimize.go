/*
Package optimize drives an objfun.Objective to (hopefully) a minimum: a
plain decayed-step gradient descent, and a Polak-Ribiere+ nonlinear
conjugate gradient method with a strong-Wolfe backtracking line search.
Both share the same Minimize-style signature and Report shape so callers
(and the CLI) can treat them interchangeably.
*/
package optimize

import (
	"context"
	"log/slog"
	"math"
)

// Report summarizes a completed (or aborted) minimization run.
type Report struct {
	FinalFx    float64
	Iterations int
	Converged  bool
	// Code mirrors the exit-code convention: a positive code is returned on
	// ordinary completion (whether converged or iteration-capped); a
	// negative code reports a numerical warning -- line-search failure in
	// CG, or a NaN in fx/gradient in either optimizer -- observed at
	// iteration |Code|-1.
	Code int
}

// Options configures either optimizer. Fields irrelevant to a given
// optimizer are ignored by it.
type Options struct {
	MaxIterations int

	// Gradient descent.
	StepInitial float64 // alpha_0
	StepDecay   float64 // alpha_decay

	// Conjugate gradient.
	EpsilonG float64 // convergence threshold on max|gradient|
	C1       float64 // Armijo sufficient-decrease constant
	C2       float64 // curvature constant

	// Logger receives one message per iteration at slog.Debug; a nil
	// Logger disables this.
	Logger *slog.Logger
}

// DefaultGradientDescentOptions returns the spec's default gradient-descent
// schedule: alpha_0 = 5e-3, alpha_decay = 10.
func DefaultGradientDescentOptions(maxIterations int) Options {
	return Options{
		MaxIterations: maxIterations,
		StepInitial:   5e-3,
		StepDecay:     10,
	}
}

// DefaultCGOptions returns the spec's default strong-Wolfe line search
// constants: c1 = 1e-4, c2 = 0.1.
func DefaultCGOptions(maxIterations int) Options {
	return Options{
		MaxIterations: maxIterations,
		EpsilonG:      1e-5,
		C1:            1e-4,
		C2:            0.1,
	}
}

func logIteration(logger *slog.Logger, iter int, fx float64, gnorm float64) {
	if logger == nil {
		return
	}
	logger.Debug("optimize: iteration", "iter", iter, "fx", fx, "gnorm", gnorm)
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if a := abs(x); a > m {
			m = a
		}
	}
	return m
}

// hasNaN reports whether fx or any entry of grad is NaN, per spec.md §7's
// "numerical NaN in the objective is treated as line-search failure (CG) /
// a diagnostic termination (GD)" policy.
func hasNaN(fx float64, grad []float64) bool {
	if math.IsNaN(fx) {
		return true
	}
	for _, g := range grad {
		if math.IsNaN(g) {
			return true
		}
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
