package optimize

import (
	"context"

	"github.com/susannvorberg/ccmgo/objfun"
)

// GradientDescent minimizes obj starting from x0 (not modified in place; a
// copy is returned) using a decayed step size:
//
//	alpha(t) = StepInitial / (1 + t/StepDecay)
//
// It runs exactly MaxIterations steps (gradient descent here has no
// principled early-stop criterion beyond the iteration budget) unless ctx
// is cancelled first, or a NaN fx/gradient is observed, which terminates
// immediately with a negative diagnostic code.
func GradientDescent(ctx context.Context, obj objfun.Objective, x0 []float64, opts Options) ([]float64, Report, error) {
	x := append([]float64(nil), x0...)

	var fx float64
	iter := 0
	for ; iter < opts.MaxIterations; iter++ {
		if cancelled(ctx) {
			return x, Report{FinalFx: fx, Iterations: iter, Code: 0}, ctx.Err()
		}

		var grad []float64
		var err error
		fx, grad, err = obj.Evaluate(x)
		if err != nil {
			return x, Report{FinalFx: fx, Iterations: iter}, err
		}
		if hasNaN(fx, grad) {
			return x, Report{FinalFx: fx, Iterations: iter, Converged: false, Code: -(iter + 1)}, nil
		}

		alpha := opts.StepInitial / (1 + float64(iter)/opts.StepDecay)
		for i := range x {
			x[i] -= alpha * grad[i]
		}

		logIteration(opts.Logger, iter, fx, maxAbs(grad))
	}

	return x, Report{FinalFx: fx, Iterations: iter, Converged: false, Code: iter + 1}, nil
}
