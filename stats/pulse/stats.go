package pulse

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pulsefit/dsp/core"
	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Errors returned by the statistics functions.
var (
	ErrZeroWeight = errors.New("pulse: selected amplitudes sum to zero")
	ErrMaskLength = errors.New("pulse: mask length does not match waveform")

	// ErrEmpty is a zero-weight error raised when the mask selects nothing.
	ErrEmpty = fmt.Errorf("%w: empty sample subset", ErrZeroWeight)
)

// subset returns the masked times and amplitudes of w.
func subset(w waveform.Waveform, mask []bool) (t, p []float64, err error) {
	grid := w.Grid()
	if mask != nil && len(mask) != len(w.P) {
		return nil, nil, fmt.Errorf("%w: mask=%d samples=%d", ErrMaskLength, len(mask), len(w.P))
	}
	t = core.Select(grid, mask)
	p = core.Select(w.P, mask)
	if len(p) == 0 {
		return nil, nil, ErrEmpty
	}
	return t, p, nil
}

// Centroid returns the amplitude-weighted mean sample time over mask.
func Centroid(w waveform.Waveform, mask []bool) (float64, error) {
	t, p, err := subset(w, mask)
	if err != nil {
		return 0, err
	}
	if floats.Sum(p) == 0 {
		return 0, ErrZeroWeight
	}
	return stat.Mean(t, p), nil
}

// Sigma returns the amplitude-weighted standard deviation of the sample times
// about the centroid over mask.
func Sigma(w waveform.Waveform, mask []bool) (float64, error) {
	t, p, err := subset(w, mask)
	if err != nil {
		return 0, err
	}
	if floats.Sum(p) == 0 {
		return 0, ErrZeroWeight
	}
	return stat.PopStdDev(t, p), nil
}

// Percentile returns the sample times at which the normalized cumulative
// amplitude over mask reaches each fraction in ps (0..1). Fractions below the
// first cumulative value map to the first selected time, fractions above one
// map to the last.
func Percentile(w waveform.Waveform, ps []float64, mask []bool) ([]float64, error) {
	t, p, err := subset(w, mask)
	if err != nil {
		return nil, err
	}

	c := floats.CumSum(make([]float64, len(p)), p)
	total := c[len(c)-1]
	if total == 0 {
		return nil, ErrZeroWeight
	}
	floats.Scale(1/total, c)

	out := make([]float64, len(ps))
	for i, q := range ps {
		out[i] = interpolate(q, c, t)
	}
	return out, nil
}

// RobustSpread returns half the distance between the 16th and 84th weighted
// percentiles over mask.
func RobustSpread(w waveform.Waveform, mask []bool) (float64, error) {
	lh, err := Percentile(w, []float64{0.16, 0.84}, mask)
	if err != nil {
		return 0, err
	}
	return (lh[1] - lh[0]) / 2, nil
}

// interpolate evaluates the piecewise-linear function through (xp, fp) at x,
// clamping to the end values outside [xp[0], xp[last]]. xp must be
// non-decreasing.
func interpolate(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}

	j := sort.SearchFloat64s(xp, x) // first xp[j] >= x, 1 <= j <= n-1
	if xp[j] == x {
		return fp[j]
	}
	x0, x1 := xp[j-1], xp[j]
	frac := (x - x0) / (x1 - x0)
	return fp[j-1] + frac*(fp[j]-fp[j-1])
}
