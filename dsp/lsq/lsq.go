package lsq

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-pulsefit/dsp/core"
)

// ErrLengthMismatch is returned when candidate and observation differ in length.
var ErrLengthMismatch = errors.New("lsq: candidate and observation lengths differ")

// Result is the outcome of an affine least-squares fit.
type Result struct {
	Residual float64 // Euclidean norm of the residual over the used samples
	A        float64 // amplitude coefficient
	B        float64 // offset coefficient
	Used     int     // number of finite samples entering the fit
	Singular bool    // normal equations could not be solved; A and B are zero
}

// Estimate returns A*cand + B over the whole candidate grid. Non-finite
// candidate samples stay non-finite.
func (r Result) Estimate(cand []float64) []float64 {
	out := make([]float64, len(cand))
	floats.ScaleTo(out, r.A, cand)
	floats.AddConst(r.B, out)
	return out
}

// Fitter solves repeated fits while reusing its scratch buffers. The zero
// value is ready to use. A Fitter is not safe for concurrent use.
type Fitter struct {
	x, y, r []float64
	prod    []float64
	normal  *mat.SymDense
	rhs     *mat.VecDense
	coef    *mat.VecDense
	chol    mat.Cholesky
}

// Fit is a convenience wrapper around a throwaway Fitter.
func Fit(cand, obs []float64) (Result, error) {
	var f Fitter
	return f.Fit(cand, obs)
}

// Fit returns the least-squares amplitude and offset of obs against cand.
// Only samples finite in both inputs enter the fit. When none is, the result
// is Singular with Used == 0 and a zero residual, so callers comparing
// residuals should check Used.
func (f *Fitter) Fit(cand, obs []float64) (Result, error) {
	if len(cand) != len(obs) {
		return Result{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(cand), len(obs))
	}

	f.x, f.y = f.x[:0], f.y[:0]
	for i, c := range cand {
		if core.IsFinite(c) && core.IsFinite(obs[i]) {
			f.x = append(f.x, c)
			f.y = append(f.y, obs[i])
		}
	}
	n := len(f.x)
	if n == 0 {
		return Result{Singular: true}, nil
	}

	a, b, ok := f.solve(n)
	if !ok {
		return Result{Residual: floats.Norm(f.y, 2), Used: n, Singular: true}, nil
	}

	f.r = core.EnsureLen(f.r, n)
	for i, x := range f.x {
		f.r[i] = f.y[i] - a*x - b
	}

	return Result{Residual: floats.Norm(f.r, 2), A: a, B: b, Used: n}, nil
}

// solve forms and solves [Σx² Σx; Σx n] [A B]ᵀ = [Σxy Σy]ᵀ.
func (f *Fitter) solve(n int) (a, b float64, ok bool) {
	if f.normal == nil {
		f.normal = mat.NewSymDense(2, nil)
		f.rhs = mat.NewVecDense(2, nil)
		f.coef = mat.NewVecDense(2, nil)
	}

	f.prod = core.EnsureLen(f.prod, n)
	vecmath.MulBlock(f.prod, f.x, f.x)
	f.normal.SetSym(0, 0, floats.Sum(f.prod))
	f.normal.SetSym(0, 1, floats.Sum(f.x))
	f.normal.SetSym(1, 1, float64(n))
	vecmath.MulBlock(f.prod, f.x, f.y)
	f.rhs.SetVec(0, floats.Sum(f.prod))
	f.rhs.SetVec(1, floats.Sum(f.y))

	if !f.chol.Factorize(f.normal) {
		return 0, 0, false
	}
	if err := f.chol.SolveVecTo(f.coef, f.rhs); err != nil {
		// mat.Condition: the factorization exists but the system is numerically singular.
		return 0, 0, false
	}

	a, b = f.coef.AtVec(0), f.coef.AtVec(1)
	if !core.IsFinite(a) || !core.IsFinite(b) {
		return 0, 0, false
	}
	return a, b, true
}
