package testutil

import "github.com/cwbudde/algo-pulsefit/dsp/signal"

// Grid returns n regularly spaced sample times starting at start.
func Grid(n int, step, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// GaussianPulse samples amplitude * exp(-(t-center)^2 / (2 sigma^2)) on t.
// It panics on invalid arguments.
func GaussianPulse(t []float64, center, sigma, amplitude float64) []float64 {
	out, err := signal.NewGenerator().Gaussian(t, center, sigma, amplitude)
	if err != nil {
		panic(err)
	}
	return out
}

// ExponentialPulse samples a one-sided decay exp(-(t-onset)/tau) that is zero
// before onset. It panics on invalid arguments.
func ExponentialPulse(t []float64, onset, tau float64) []float64 {
	out, err := signal.NewGenerator().Exponential(t, onset, tau)
	if err != nil {
		panic(err)
	}
	return out
}

// BoxPulse is 1 on [lo, hi) and 0 elsewhere.
func BoxPulse(t []float64, lo, hi float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		if ti >= lo && ti < hi {
			out[i] = 1
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out, err := signal.NewGenerator(signal.WithSeed(seed)).WhiteNoise(amplitude, length)
	if err != nil {
		panic(err)
	}
	return out
}

// Affine returns a*x + b element-wise.
func Affine(x []float64, a, b float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = a*v + b
	}
	return out
}

// Add returns a + b element-wise over the shorter length.
func Add(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}
