package regress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitSimpleLine(t *testing.T) {
	// Hand-computed: beta = (0.5, 1.4), RSS = 0.2, R^2 = 0.98,
	// se = (sqrt(0.15), sqrt(0.02)).
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 3, 5, 6}

	s, err := Fit("y", y, Column{Name: "x", Values: x})
	require.NoError(t, err)

	assert.Equal(t, 4, s.N)
	assert.Equal(t, 2, s.DoF)
	require.Len(t, s.Terms, 2)

	intercept, slope := s.Terms[0], s.Terms[1]
	assert.Equal(t, "(intercept)", intercept.Name)
	assert.Equal(t, "x", slope.Name)

	assert.InDelta(t, 0.5, intercept.Coef, 1e-9)
	assert.InDelta(t, 1.4, slope.Coef, 1e-9)
	assert.InDelta(t, 0.2, s.RSS, 1e-9)
	assert.InDelta(t, 0.98, s.R2, 1e-9)

	assert.InDelta(t, math.Sqrt(0.15), intercept.StdErr, 1e-9)
	assert.InDelta(t, math.Sqrt(0.02), slope.StdErr, 1e-9)
	assert.InDelta(t, 9.899494936, slope.TStat, 1e-6)
	assert.InDelta(t, 0.010051, slope.PValue, 1e-4)
	assert.InDelta(t, 0.325800, intercept.PValue, 1e-3)
}

func TestFitTwoPredictors(t *testing.T) {
	// y = 1 + 2*a + 3*b plus a pinch of noise on the last row.
	a := []float64{0, 1, 2, 3, 4, 5}
	b := []float64{1, 0, 1, 0, 1, 0}
	y := make([]float64, 6)
	for i := range y {
		y[i] = 1 + 2*a[i] + 3*b[i]
	}
	y[5] += 0.01

	s, err := Fit("y", y, Column{Name: "a", Values: a}, Column{Name: "b", Values: b})
	require.NoError(t, err)

	require.Len(t, s.Terms, 3)
	assert.InDelta(t, 1.0, s.Terms[0].Coef, 0.02)
	assert.InDelta(t, 2.0, s.Terms[1].Coef, 0.02)
	assert.InDelta(t, 3.0, s.Terms[2].Coef, 0.02)
	assert.Greater(t, s.R2, 0.999)
}

func TestFitPerfectFit(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{3, 5, 7} // exactly 1 + 2x

	s, err := Fit("y", y, Column{Name: "x", Values: x})
	require.NoError(t, err)

	// Floating-point QR may leave a vanishing residual instead of an exact
	// zero, so the assertions bound rather than pin the degenerate stats.
	assert.InDelta(t, 0.0, s.RSS, 1e-18)
	assert.InDelta(t, 1.0, s.R2, 1e-12)
	slope := s.Terms[1]
	assert.InDelta(t, 0.0, slope.StdErr, 1e-9)
	assert.Greater(t, slope.TStat, 1e6, "zero residual variance sends t toward +Inf")
	assert.Less(t, slope.PValue, 1e-6)
}

func TestFitRejectsDegenerateInputs(t *testing.T) {
	_, err := Fit("y", []float64{1, 2}, Column{Name: "x", Values: []float64{1, 2}})
	assert.Error(t, err, "two rows cannot support intercept plus slope")

	_, err = Fit("y", []float64{1, 2, 3})
	assert.Error(t, err, "no predictors")

	_, err = Fit("y", []float64{1, 2, 3}, Column{Name: "x", Values: []float64{1, 2}})
	assert.Error(t, err, "length mismatch")
}

func TestFitSingularDesign(t *testing.T) {
	// Predictor collinear with the intercept.
	x := []float64{2, 2, 2, 2}
	y := []float64{1, 2, 3, 4}

	_, err := Fit("y", y, Column{Name: "const", Values: x})
	assert.Error(t, err)
}

func TestFitConstantTargetHasUndefinedR2(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{5, 5, 5, 5}

	s, err := Fit("y", y, Column{Name: "x", Values: x})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(s.R2))
}
