// Package signal synthesizes pulse shapes and noise on a sample grid.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pulsefit/dsp/core"
)

// Generator creates deterministic pulse shapes and noise.
type Generator struct {
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator. The default seed is 1.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Exponential samples a one-sided decay exp(-(t-onset)/tau) on grid. It is
// zero before onset.
func (g *Generator) Exponential(grid []float64, onset, tau float64) ([]float64, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("exponential grid must not be empty")
	}
	if tau <= 0 || !core.IsFinite(tau) {
		return nil, fmt.Errorf("exponential decay time must be > 0: %f", tau)
	}
	out := make([]float64, len(grid))
	for i, t := range grid {
		if t >= onset {
			out[i] = math.Exp(-(t - onset) / tau)
		}
	}
	return out, nil
}

// Gaussian samples amplitude*exp(-(t-center)²/2σ²) on grid.
func (g *Generator) Gaussian(grid []float64, center, sigma, amplitude float64) ([]float64, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("gaussian grid must not be empty")
	}
	if sigma <= 0 || !core.IsFinite(sigma) {
		return nil, fmt.Errorf("gaussian width must be > 0: %f", sigma)
	}
	out := make([]float64, len(grid))
	for i, t := range grid {
		d := (t - center) / sigma
		out[i] = amplitude * math.Exp(-0.5*d*d)
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
