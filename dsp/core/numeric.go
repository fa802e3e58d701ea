// Package core holds small numeric helpers shared by the pulse-fitting packages.
package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps.
// The comparison is absolute near zero and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// UniformStep returns the constant spacing of x and true when every
// consecutive difference matches x[1]-x[0] within the relative tolerance tol.
// Slices shorter than two samples are never uniform.
func UniformStep(x []float64, tol float64) (float64, bool) {
	if len(x) < 2 {
		return 0, false
	}

	step := x[1] - x[0]
	for i := 2; i < len(x); i++ {
		if !NearlyEqual(x[i]-x[i-1], step, tol) {
			return step, false
		}
	}

	return step, true
}
