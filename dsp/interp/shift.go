package interp

import (
	"fmt"

	"github.com/cwbudde/algo-pulsefit/dsp/core"
)

// ShiftVector linearly interpolates y0, sampled on the regular grid x0, at
// the uniform query times xi. Query points outside [x0[0], x0[last]) are zero.
// delta is the source spacing; pass 0 to infer it.
func ShiftVector(xi, x0, y0 []float64, delta float64) ([]float64, error) {
	ys, _, err := ShiftVectorInRange(xi, x0, y0, delta)
	return ys, err
}

// ShiftVectorInRange is ShiftVector that also reports the indices of the
// in-range query points.
func ShiftVectorInRange(xi, x0, y0 []float64, delta float64) ([]float64, []int, error) {
	delta, err := sourceSpacing(x0, delta)
	if err != nil {
		return nil, nil, err
	}
	if len(y0) != len(x0) {
		return nil, nil, fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(x0), len(y0))
	}

	step, uniform := core.UniformStep(xi, uniformTolerance)
	if len(xi) >= 2 && (!uniform || step <= 0) {
		return nil, nil, ErrNonUniformQuery
	}

	n := len(x0)
	lo, hi := x0[0], x0[n-1]
	ys := make([]float64, len(xi))

	// The in-range query points of an increasing grid form one contiguous run.
	first := -1
	last := -1
	for i, x := range xi {
		if inBounds(x, lo, hi) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return ys, nil, nil
	}

	ni := last - first + 1
	idx := make([]int, ni)
	for k := range idx {
		idx[k] = first + k
	}

	if len(xi) >= 2 && core.NearlyEqual(step, delta, uniformTolerance) {
		// Same spacing: one fractional weight for the whole block.
		i0, w := locate(xi[first], lo, delta, n)
		for k := 0; k < ni; k++ {
			j := i0 + k
			if j+1 >= n {
				j, w = n-2, 1
			}
			ys[first+k] = Linear2(w, y0[j], y0[j+1])
		}
		return ys, idx, nil
	}

	for _, i := range idx {
		j, w := locate(xi[i], lo, delta, n)
		ys[i] = Linear2(w, y0[j], y0[j+1])
	}
	return ys, idx, nil
}
