// Package regress fits ordinary least squares models for the evaluation
// report. Fits use the whole dataset; there is no cross-validation, which the
// report states as a limitation.
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Column is one predictor with its display name.
type Column struct {
	Name   string
	Values []float64
}

// Term is one fitted coefficient.
type Term struct {
	Name   string
	Coef   float64
	StdErr float64
	TStat  float64
	PValue float64
}

// Summary is a fitted model. Terms[0] is the intercept.
type Summary struct {
	Target string
	N      int
	DoF    int
	R2     float64
	RSS    float64
	Terms  []Term
}

// Fit regresses y on the given columns plus an intercept, via QR. Standard
// errors come from the unbiased residual variance and p-values from a
// two-sided t test with N-terms degrees of freedom. A perfect fit drives
// standard errors to zero and t statistics to infinity, which print as such
// rather than being special-cased.
func Fit(target string, y []float64, cols ...Column) (*Summary, error) {
	n := len(y)
	p := len(cols) + 1
	if len(cols) == 0 {
		return nil, fmt.Errorf("fit %s: no predictor columns", target)
	}
	for _, col := range cols {
		if len(col.Values) != n {
			return nil, fmt.Errorf("fit %s: column %s has %d values for %d rows", target, col.Name, len(col.Values), n)
		}
	}
	if n <= p {
		return nil, fmt.Errorf("fit %s: %d rows cannot support %d terms", target, n, p)
	}

	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, col := range cols {
			X.Set(i, j+1, col.Values[i])
		}
	}
	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, fmt.Errorf("fit %s: singular design matrix: %w", target, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(X, &beta)

	rss := 0.0
	mean := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
		mean += y[i]
	}
	mean /= float64(n)
	tss := 0.0
	for i := 0; i < n; i++ {
		d := y[i] - mean
		tss += d * d
	}

	dof := n - p
	sigma2 := rss / float64(dof)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("fit %s: singular design matrix: %w", target, err)
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	terms := make([]Term, p)
	for j := 0; j < p; j++ {
		name := "(intercept)"
		if j > 0 {
			name = cols[j-1].Name
		}
		coef := beta.AtVec(j)
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		t := coef / se
		terms[j] = Term{
			Name:   name,
			Coef:   coef,
			StdErr: se,
			TStat:  t,
			PValue: 2 * (1 - tdist.CDF(math.Abs(t))),
		}
	}

	r2 := math.NaN()
	if tss > 0 {
		r2 = 1 - rss/tss
	}

	return &Summary{
		Target: target,
		N:      n,
		DoF:    dof,
		R2:     r2,
		RSS:    rss,
		Terms:  terms,
	}, nil
}
