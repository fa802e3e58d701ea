package waveform

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pulsefit/dsp/core"
)

// Errors returned by waveform constructors.
var (
	ErrLengthMismatch = errors.New("waveform: time and amplitude lengths differ")
	ErrTooShort       = errors.New("waveform: need at least two samples")
	ErrNotMonotonic   = errors.New("waveform: sample times must increase")
	ErrBadSampling    = errors.New("waveform: sample interval must be positive and finite")
)

// regularTolerance is the relative tolerance used when deciding whether a grid
// is regularly spaced.
const regularTolerance = 1e-6

// Waveform is a sampled signal. It is treated as immutable once constructed:
// callers must not modify T or P after handing the value to this module.
type Waveform struct {
	T []float64 // sample times, strictly increasing
	P []float64 // amplitudes, len(P) == len(T)

	// TSamp and TStart describe the implicit regular grid when the waveform was
	// built with NewRegular. Both are zero for explicit-time waveforms.
	TSamp  float64
	TStart float64
}

// New builds a waveform from explicit sample times and amplitudes.
func New(t, p []float64) (Waveform, error) {
	w := Waveform{T: t, P: p}
	if err := w.Validate(); err != nil {
		return Waveform{}, err
	}
	return w, nil
}

// NewRegular builds a waveform on the regular grid T[i] = i*tSamp + tStart.
func NewRegular(p []float64, tSamp, tStart float64) (Waveform, error) {
	if tSamp <= 0 || !core.IsFinite(tSamp) || !core.IsFinite(tStart) {
		return Waveform{}, fmt.Errorf("%w: tSamp=%v tStart=%v", ErrBadSampling, tSamp, tStart)
	}
	if len(p) < 2 {
		return Waveform{}, ErrTooShort
	}

	return Waveform{
		T:      Grid(len(p), tSamp, tStart),
		P:      p,
		TSamp:  tSamp,
		TStart: tStart,
	}, nil
}

// Grid returns n regularly spaced times starting at start.
func Grid(n int, step, start float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i)*step + start
	}
	return t
}

// Validate checks the structural invariants of w.
func (w Waveform) Validate() error {
	t := w.Grid()
	if len(t) != len(w.P) {
		return fmt.Errorf("%w: len(t)=%d len(p)=%d", ErrLengthMismatch, len(t), len(w.P))
	}
	if len(t) < 2 {
		return ErrTooShort
	}
	for i := 1; i < len(t); i++ {
		if !(t[i] > t[i-1]) {
			return fmt.Errorf("%w: t[%d]=%v t[%d]=%v", ErrNotMonotonic, i-1, t[i-1], i, t[i])
		}
	}
	return nil
}

// Len returns the number of samples.
func (w Waveform) Len() int {
	return len(w.P)
}

// Grid returns the sample times. When T is nil and TSamp is set, the regular
// grid is reconstructed from TSamp and TStart.
func (w Waveform) Grid() []float64 {
	if w.T == nil && w.TSamp > 0 {
		return Grid(len(w.P), w.TSamp, w.TStart)
	}
	return w.T
}

// Spacing returns the interval between the first two samples, or NaN when
// the waveform has fewer than two samples.
func (w Waveform) Spacing() float64 {
	if w.TSamp > 0 {
		return w.TSamp
	}
	if len(w.T) < 2 {
		return math.NaN()
	}
	return w.T[1] - w.T[0]
}

// IsRegular reports whether the sample times are evenly spaced.
func (w Waveform) IsRegular() bool {
	_, ok := core.UniformStep(w.Grid(), regularTolerance)
	return ok
}

// SameGrid reports whether w and other are sampled at the same times.
func (w Waveform) SameGrid(other Waveform) bool {
	a, b := w.Grid(), other.Grid()
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	step := math.Abs(w.Spacing())
	tol := step * regularTolerance
	return math.Abs(a[0]-b[0]) <= tol &&
		math.Abs(a[len(a)-1]-b[len(b)-1]) <= tol &&
		core.NearlyEqual(w.Spacing(), other.Spacing(), regularTolerance)
}

// WithAmplitudes returns a copy of w that shares its time grid but carries p.
func (w Waveform) WithAmplitudes(p []float64) Waveform {
	out := w
	out.P = p
	return out
}
