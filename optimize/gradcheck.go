package optimize

import "github.com/susannvorberg/ccmgo/objfun"

// GradientCheckResult reports the largest discrepancy found between an
// objective's analytic gradient and its central-difference numerical
// approximation.
type GradientCheckResult struct {
	MaxAbsDiff   float64
	MaxAbsDiffAt int
}

// CheckGradient compares obj's analytic gradient at x against a central
// difference approximation at every index, returning the worst
// discrepancy. h is the finite-difference step (1e-5 is a reasonable
// default for float64).
func CheckGradient(obj objfun.Objective, x []float64, h float64) (GradientCheckResult, error) {
	_, analytic, err := obj.Evaluate(x)
	if err != nil {
		return GradientCheckResult{}, err
	}

	var result GradientCheckResult
	xPlus := append([]float64(nil), x...)
	xMinus := append([]float64(nil), x...)
	for i := range x {
		xPlus[i] += h
		xMinus[i] -= h

		fxPlus, _, err := obj.Evaluate(xPlus)
		if err != nil {
			return GradientCheckResult{}, err
		}
		fxMinus, _, err := obj.Evaluate(xMinus)
		if err != nil {
			return GradientCheckResult{}, err
		}

		xPlus[i] = x[i]
		xMinus[i] = x[i]

		numeric := (fxPlus - fxMinus) / (2 * h)
		diff := abs(numeric - analytic[i])
		if diff > result.MaxAbsDiff {
			result.MaxAbsDiff = diff
			result.MaxAbsDiffAt = i
		}
	}

	return result, nil
}
