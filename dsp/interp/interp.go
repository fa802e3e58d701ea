package interp

import (
	"errors"
	"math"
)

// Errors returned by the resampling functions.
var (
	ErrShortGrid       = errors.New("interp: source grid needs at least two samples")
	ErrLengthMismatch  = errors.New("interp: source times and values differ in length")
	ErrBadSpacing      = errors.New("interp: source spacing must be positive and finite")
	ErrNonUniformQuery = errors.New("interp: query grid is not uniform")
)

// uniformTolerance is the relative tolerance for treating a query grid as uniform.
const uniformTolerance = 1e-6

// Linear2 interpolates between y0 and y1 at fraction frac in [0,1].
func Linear2(frac, y0, y1 float64) float64 {
	return (1-frac)*y0 + frac*y1
}

// sourceSpacing validates the source grid and returns delta, inferring it from
// the first two samples when delta <= 0.
func sourceSpacing(x0 []float64, delta float64) (float64, error) {
	if len(x0) < 2 {
		return 0, ErrShortGrid
	}
	if delta <= 0 {
		delta = x0[1] - x0[0]
	}
	if !(delta > 0) || math.IsInf(delta, 0) {
		return 0, ErrBadSpacing
	}
	return delta, nil
}

// inBounds reports whether x lies in the half-open source support [lo, hi).
func inBounds(x, lo, hi float64) bool {
	return x >= lo && x < hi
}

// locate returns the left bracketing index and fraction of x on the regular
// grid starting at x0 with the given spacing. The index is clamped so that
// idx+1 is always a valid source sample.
func locate(x, x0, delta float64, n int) (int, float64) {
	u := (x - x0) / delta
	idx := int(math.Floor(u))
	frac := u - float64(idx)
	if idx > n-2 {
		idx = n - 2
		frac = 1
	}
	if idx < 0 {
		idx = 0
		frac = 0
	}
	return idx, frac
}
