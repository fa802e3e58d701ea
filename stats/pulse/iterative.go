package pulse

import (
	"math"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Result is the outcome of IterativeCentroid.
type Result struct {
	Centroid   float64
	Spread     float64 // robust spread of the final subset
	Iterations int     // clipping passes performed after the initial estimate
}

type iterConfig struct {
	clip     float64
	tol      float64
	maxIter  int
	mask     []bool
	tolGiven bool
}

// Option configures IterativeCentroid.
type Option func(*iterConfig)

// WithClip sets the clipping half-width in robust spreads (default 3).
func WithClip(n float64) Option {
	return func(c *iterConfig) {
		if n > 0 {
			c.clip = n
		}
	}
}

// WithTolerance sets the centroid convergence tolerance. The default is one
// tenth of the sample interval.
func WithTolerance(tol float64) Option {
	return func(c *iterConfig) {
		if tol > 0 {
			c.tol = tol
			c.tolGiven = true
		}
	}
}

// WithMaxIterations caps the number of clipping passes (default 20).
func WithMaxIterations(n int) Option {
	return func(c *iterConfig) {
		if n >= 0 {
			c.maxIter = n
		}
	}
}

// WithMask restricts the initial subset. Positive amplitudes are always
// required in addition to the mask.
func WithMask(mask []bool) Option {
	return func(c *iterConfig) {
		c.mask = mask
	}
}

// IterativeCentroid estimates the centroid and robust spread of the pulse in w
// by N-sigma clipping. It starts from all positive samples (intersected with
// the optional mask), then repeatedly keeps the positive samples within clip
// robust spreads of the current centroid until the centroid moves by less
// than the tolerance or the iteration cap is reached.
func IterativeCentroid(w waveform.Waveform, opts ...Option) (Result, error) {
	cfg := iterConfig{clip: 3, maxIter: 20}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.tolGiven {
		cfg.tol = 0.1 * w.Spacing()
	}

	grid := w.Grid()
	if cfg.mask != nil && len(cfg.mask) != len(w.P) {
		return Result{}, ErrMaskLength
	}

	els := make([]bool, len(w.P))
	for i, v := range w.P {
		els[i] = v > 0 && (cfg.mask == nil || cfg.mask[i])
	}

	tc, err := Centroid(w, els)
	if err != nil {
		return Result{}, err
	}
	spread, err := RobustSpread(w, els)
	if err != nil {
		return Result{}, err
	}

	last := grid[0]
	count := 0
	for math.Abs(last-tc) > cfg.tol && count < cfg.maxIter {
		count++
		for i, v := range w.P {
			els[i] = v > 0 && math.Abs(grid[i]-tc) < cfg.clip*spread
		}
		last = tc
		if tc, err = Centroid(w, els); err != nil {
			return Result{}, err
		}
		if spread, err = RobustSpread(w, els); err != nil {
			return Result{}, err
		}
	}

	return Result{Centroid: tc, Spread: spread, Iterations: count}, nil
}
