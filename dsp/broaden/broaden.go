// Package broaden applies Gaussian broadening to template profiles.
//
// A broadened profile is the template amplitude convolved with a sampled
// Gaussian density on the template's own grid. The kernel extends three
// widths either side of its centre (rounded up to whole samples) and the
// convolution keeps the template length, so the edges lose energy to zero
// padding; that loss is accepted, not corrected.
package broaden

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pulsefit/dsp/conv"
	"github.com/cwbudde/algo-pulsefit/dsp/core"
	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Errors returned by the broadening functions.
var (
	ErrBadSigma   = errors.New("broaden: sigma must be finite and non-negative")
	ErrBadSpacing = errors.New("broaden: grid spacing must be positive and finite")
)

// kernelHalfWidths is the kernel half-width in units of sigma.
const kernelHalfWidths = 3

// Gaussian returns the normalized Gaussian density with the given centre and
// width evaluated at x.
func Gaussian(x, center, sigma float64) float64 {
	d := (x - center) / sigma
	return math.Exp(-0.5*d*d) / (sigma * math.Sqrt(2*math.Pi))
}

// Kernel samples the Gaussian density of width sigma at k*spacing for
// k = -n..n with n = 3*ceil(sigma/spacing). The samples are densities, not
// normalized to unit sum.
func Kernel(spacing, sigma float64) ([]float64, error) {
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadSpacing, spacing)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadSigma, sigma)
	}

	n := kernelHalfWidths * int(math.Ceil(sigma/spacing))
	k := make([]float64, 2*n+1)
	for i := range k {
		k[i] = Gaussian(float64(i-n)*spacing, 0, sigma)
	}
	return k, nil
}

// Profile returns the amplitude profile of w broadened by sigma. A zero sigma
// returns an unmodified copy of w.P.
func Profile(w waveform.Waveform, sigma float64) ([]float64, error) {
	if sigma < 0 || !core.IsFinite(sigma) {
		return nil, fmt.Errorf("%w: %v", ErrBadSigma, sigma)
	}
	if sigma == 0 {
		return core.Clone(w.P), nil
	}

	k, err := Kernel(w.Spacing(), sigma)
	if err != nil {
		return nil, err
	}
	out, err := conv.ConvolveMode(w.P, k, conv.ModeSame)
	if err != nil {
		return nil, fmt.Errorf("broaden: %w", err)
	}
	return out, nil
}

// Waveform returns w broadened by sigma on the same time grid.
func Waveform(w waveform.Waveform, sigma float64) (waveform.Waveform, error) {
	p, err := Profile(w, sigma)
	if err != nil {
		return waveform.Waveform{}, err
	}
	return w.WithAmplitudes(p), nil
}
