package optimize

import (
	"context"
	"errors"

	"github.com/susannvorberg/ccmgo/objfun"
)

// errLineSearchFailed is returned by strongWolfeLineSearch when no trial
// satisfied the strong-Wolfe conditions (or every trial was rejected as
// NaN) within its budget; ConjugateGradient turns this into a negative
// Report.Code rather than a hard Go error, per spec.md §7's numerical
// warning / non-fatal classification.
var errLineSearchFailed = errors.New("line search failed to satisfy strong-Wolfe conditions")

// ConjugateGradient minimizes obj starting from x0 using Polak-Ribiere+
// nonlinear conjugate gradient: beta is clamped to max(0, beta_PR), which
// restarts the method along steepest descent whenever the PR formula would
// otherwise propose a non-descent direction. Each step's length is chosen
// by a backtracking line search targeting the strong Wolfe conditions
// (Armijo sufficient decrease with constant C1, curvature with constant
// C2). Terminates early once max|gradient| < EpsilonG.
func ConjugateGradient(ctx context.Context, obj objfun.Objective, x0 []float64, opts Options) ([]float64, Report, error) {
	x := append([]float64(nil), x0...)
	fx, grad, err := obj.Evaluate(x)
	if err != nil {
		return x, Report{}, err
	}
	if hasNaN(fx, grad) {
		return x, Report{FinalFx: fx, Iterations: 0, Converged: false, Code: -1}, nil
	}
	direction := negate(grad)

	iter := 0
	for ; iter < opts.MaxIterations; iter++ {
		if cancelled(ctx) {
			return x, Report{FinalFx: fx, Iterations: iter}, ctx.Err()
		}

		gnorm := maxAbs(grad)
		logIteration(opts.Logger, iter, fx, gnorm)
		if gnorm < opts.EpsilonG {
			return x, Report{FinalFx: fx, Iterations: iter, Converged: true, Code: iter + 1}, nil
		}

		_, xNew, fxNew, gradNew, err := strongWolfeLineSearch(obj, x, direction, fx, grad, opts.C1, opts.C2)
		if err == errLineSearchFailed {
			logIteration(opts.Logger, iter, fx, gnorm)
			return x, Report{FinalFx: fx, Iterations: iter, Converged: false, Code: -(iter + 1)}, nil
		}
		if err != nil {
			return x, Report{FinalFx: fx, Iterations: iter}, err
		}
		if hasNaN(fxNew, gradNew) {
			return x, Report{FinalFx: fx, Iterations: iter, Converged: false, Code: -(iter + 1)}, nil
		}

		betaPR := dot(gradNew, sub(gradNew, grad)) / dot(grad, grad)
		beta := betaPR
		if beta < 0 {
			beta = 0
		}

		newDirection := make([]float64, len(gradNew))
		for i := range newDirection {
			newDirection[i] = -gradNew[i] + beta*direction[i]
		}

		x, fx, grad, direction = xNew, fxNew, gradNew, newDirection
	}

	return x, Report{FinalFx: fx, Iterations: iter, Converged: false, Code: iter + 1}, nil
}

// strongWolfeLineSearch backtracks (or extends) a trial step length,
// starting at alpha=1, until it satisfies both the Armijo and curvature
// conditions. A trial whose fx/gradient is NaN is rejected outright (same
// as a failed Armijo check) rather than ever being returned as a result. If
// the trial budget is exhausted without a satisfying trial, it returns
// errLineSearchFailed.
func strongWolfeLineSearch(obj objfun.Objective, x, direction []float64, fx0 float64, grad0 []float64, c1, c2 float64) (
	alpha float64, xNew []float64, fxNew float64, gradNew []float64, err error) {

	dphi0 := dot(grad0, direction)
	if dphi0 >= 0 {
		direction = negate(grad0)
		dphi0 = dot(grad0, direction)
	}

	alpha = 1.0
	const maxTrials = 30

	for trial := 0; trial < maxTrials; trial++ {
		xTry := addScaled(x, direction, alpha)
		fxTry, gradTry, evalErr := obj.Evaluate(xTry)
		if evalErr != nil {
			return 0, nil, 0, nil, evalErr
		}
		if hasNaN(fxTry, gradTry) {
			alpha *= 0.5
			continue
		}

		armijo := fxTry <= fx0+c1*alpha*dphi0
		dphiTry := dot(gradTry, direction)
		curvature := abs(dphiTry) <= c2*abs(dphi0)

		if armijo && curvature {
			return alpha, xTry, fxTry, gradTry, nil
		}
		if !armijo {
			alpha *= 0.5
			continue
		}
		alpha *= 2.0
	}

	return 0, nil, 0, nil, errLineSearchFailed
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func addScaled(x, direction []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] + alpha*direction[i]
	}
	return out
}
