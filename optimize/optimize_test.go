package optimize_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/optimize"
)

// quadratic is f(x) = sum((x_i - target_i)^2), a convex sanity-check
// objective with a known minimum, analogous to how optimizer tests in the
// pack's CRF/LBFGS examples check convergence on a tractable toy loss
// before trusting the optimizer on the real model.
type quadratic struct {
	target []float64
}

func (q quadratic) NVar() int { return len(q.target) }

func (q quadratic) Evaluate(x []float64) (float64, []float64, error) {
	var fx float64
	grad := make([]float64, len(x))
	for i := range x {
		d := x[i] - q.target[i]
		fx += d * d
		grad[i] = 2 * d
	}
	return fx, grad, nil
}

func TestGradientDescentConvergesOnQuadratic(t *testing.T) {
	q := quadratic{target: []float64{1, -2, 0.5}}
	x0 := make([]float64, 3)

	opts := optimize.DefaultGradientDescentOptions(2000)
	// The default alpha_0 = 5e-3 decays too fast to get within 1e-2 of the
	// minimum in 2000 steps (it covers about 41% of the distance), so the
	// same decayed schedule is run from a larger initial step.
	opts.StepInitial = 0.1
	x, report, err := optimize.GradientDescent(context.Background(), q, x0, opts)
	require.NoError(t, err)
	require.Equal(t, 2000, report.Iterations)
	for i := range x {
		require.InDelta(t, q.target[i], x[i], 1e-2)
	}
}

func TestConjugateGradientConvergesOnQuadratic(t *testing.T) {
	q := quadratic{target: []float64{3, 1, -1, 2}}
	x0 := make([]float64, 4)

	opts := optimize.DefaultCGOptions(200)
	x, report, err := optimize.ConjugateGradient(context.Background(), q, x0, opts)
	require.NoError(t, err)
	require.True(t, report.Converged)
	require.Less(t, report.Iterations, 200)
	for i := range x {
		require.InDelta(t, q.target[i], x[i], 1e-3)
	}
}

func TestConjugateGradientRespectsContextCancellation(t *testing.T) {
	q := quadratic{target: []float64{100, 100}}
	x0 := make([]float64, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := optimize.DefaultCGOptions(1000)
	_, report, err := optimize.ConjugateGradient(ctx, q, x0, opts)
	require.Error(t, err)
	require.Equal(t, 0, report.Iterations)
}

func TestCheckGradientFindsNoDiscrepancyOnQuadratic(t *testing.T) {
	q := quadratic{target: []float64{0.3, -0.7}}
	result, err := optimize.CheckGradient(q, []float64{1, 1}, 1e-5)
	require.NoError(t, err)
	require.Less(t, result.MaxAbsDiff, 1e-4)
}

// nanAt reports fx == NaN from its atCall-th Evaluate call onward, to drive
// an optimizer into the NaN-handling path deterministically.
type nanAt struct {
	target []float64
	calls  *int
	atCall int
}

func (q nanAt) NVar() int { return len(q.target) }

func (q nanAt) Evaluate(x []float64) (float64, []float64, error) {
	*q.calls++
	grad := make([]float64, len(x))
	var fx float64
	for i := range x {
		d := x[i] - q.target[i]
		fx += d * d
		grad[i] = 2 * d
	}
	if *q.calls >= q.atCall {
		nan := math.NaN()
		return nan, []float64{nan, nan}, nil
	}
	return fx, grad, nil
}

func TestGradientDescentReportsNegativeCodeOnNaN(t *testing.T) {
	calls := 0
	q := nanAt{target: []float64{1, -2}, calls: &calls, atCall: 3}
	x0 := make([]float64, 2)

	opts := optimize.DefaultGradientDescentOptions(50)
	_, report, err := optimize.GradientDescent(context.Background(), q, x0, opts)
	require.NoError(t, err)
	require.False(t, report.Converged)
	require.Less(t, report.Code, 0)
}

func TestConjugateGradientReportsNegativeCodeOnNaN(t *testing.T) {
	calls := 0
	q := nanAt{target: []float64{1, -2}, calls: &calls, atCall: 2}
	x0 := make([]float64, 2)

	opts := optimize.DefaultCGOptions(50)
	_, report, err := optimize.ConjugateGradient(context.Background(), q, x0, opts)
	require.NoError(t, err)
	require.False(t, report.Converged)
	require.Less(t, report.Code, 0)
}

// neverSatisfied never satisfies the strong-Wolfe curvature condition
// (its gradient never shrinks in the search direction), forcing
// strongWolfeLineSearch to exhaust its trial budget.
type neverSatisfied struct{}

func (neverSatisfied) NVar() int { return 2 }

func (neverSatisfied) Evaluate(x []float64) (float64, []float64, error) {
	return 0, []float64{1, 1}, nil
}

func TestConjugateGradientReportsNegativeCodeOnLineSearchFailure(t *testing.T) {
	q := neverSatisfied{}
	x0 := make([]float64, 2)

	opts := optimize.DefaultCGOptions(50)
	_, report, err := optimize.ConjugateGradient(context.Background(), q, x0, opts)
	require.NoError(t, err)
	require.False(t, report.Converged)
	require.Less(t, report.Code, 0)
}
