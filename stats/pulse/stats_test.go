package pulse

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
	"github.com/cwbudde/algo-pulsefit/internal/testutil"
)

func gaussianWaveform(t *testing.T, n int, dt, center, sigma float64) waveform.Waveform {
	t.Helper()
	grid := testutil.Grid(n, dt, 0)
	w, err := waveform.New(grid, testutil.GaussianPulse(grid, center, sigma, 1))
	if err != nil {
		t.Fatalf("waveform.New: %v", err)
	}
	return w
}

func TestCentroidSymmetricPulse(t *testing.T) {
	tests := []struct {
		name   string
		center float64
	}{
		{name: "on sample", center: 10},
		{name: "between samples", center: 10.025},
		{name: "off center", center: 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := gaussianWaveform(t, 401, 0.05, tt.center, 1.5)
			c, err := Centroid(w, nil)
			if err != nil {
				t.Fatalf("Centroid: %v", err)
			}
			testutil.RequireNear(t, "centroid", c, tt.center, 1e-9)
		})
	}
}

func TestCentroidMask(t *testing.T) {
	grid := testutil.Grid(6, 1, 0)
	w, _ := waveform.New(grid, []float64{1, 1, 0, 0, 4, 4})

	mask := []bool{false, false, false, false, true, true}
	c, err := Centroid(w, mask)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	testutil.RequireNear(t, "masked centroid", c, 4.5, 1e-12)
}

func TestZeroWeightIsFatal(t *testing.T) {
	grid := testutil.Grid(4, 1, 0)
	w, _ := waveform.New(grid, []float64{0, 0, 0, 0})

	if _, err := Centroid(w, nil); !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("Centroid err = %v, want ErrZeroWeight", err)
	}
	if _, err := Sigma(w, nil); !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("Sigma err = %v, want ErrZeroWeight", err)
	}
	if _, err := RobustSpread(w, nil); !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("RobustSpread err = %v, want ErrZeroWeight", err)
	}

	empty := make([]bool, 4)
	if _, err := Centroid(w, empty); !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("empty mask err = %v, want ErrZeroWeight", err)
	}
}

func TestMaskLength(t *testing.T) {
	w := gaussianWaveform(t, 10, 1, 5, 1)
	if _, err := Centroid(w, []bool{true}); !errors.Is(err, ErrMaskLength) {
		t.Fatalf("err = %v, want ErrMaskLength", err)
	}
}

func TestSigmaGaussian(t *testing.T) {
	w := gaussianWaveform(t, 801, 0.05, 20, 2)
	s, err := Sigma(w, nil)
	if err != nil {
		t.Fatalf("Sigma: %v", err)
	}
	testutil.RequireNear(t, "sigma", s, 2, 1e-3)
}

func TestSigmaWeighted(t *testing.T) {
	w, err := waveform.New([]float64{0, 1, 2, 3}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("waveform.New: %v", err)
	}
	// Centroid 2, weighted squared deviations (4+2+0+4)/10.
	s, err := Sigma(w, nil)
	if err != nil {
		t.Fatalf("Sigma: %v", err)
	}
	testutil.RequireNear(t, "sigma", s, 1, 1e-12)

	s, err = Sigma(w, []bool{false, true, true, false})
	if err != nil {
		t.Fatalf("Sigma masked: %v", err)
	}
	testutil.RequireNear(t, "masked sigma", s, math.Sqrt(6)/5, 1e-12)
}

func TestRobustSpreadGaussian(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2, 3} {
		w := gaussianWaveform(t, 1001, 0.05, 25, sigma)
		s, err := RobustSpread(w, nil)
		if err != nil {
			t.Fatalf("RobustSpread: %v", err)
		}
		if rel := math.Abs(s-sigma) / sigma; rel > 0.03 {
			t.Errorf("sigma=%v: spread=%v (rel err %.3f)", sigma, s, rel)
		}
	}
}

func TestPercentileClamp(t *testing.T) {
	grid := testutil.Grid(4, 1, 0)
	w, _ := waveform.New(grid, []float64{1, 1, 1, 1})

	got, err := Percentile(w, []float64{0, 0.25, 0.5, 1, 1.5}, nil)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	// Normalized cumulative sum is [0.25 0.5 0.75 1] over t=[0 1 2 3].
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0, 1, 3, 3}, 1e-12)
}

func TestInterpolateFlatSegments(t *testing.T) {
	xp := []float64{0.2, 0.5, 0.5, 1}
	fp := []float64{0, 1, 2, 3}

	testutil.RequireNear(t, "x=0.35", interpolate(0.35, xp, fp), 0.5, 1e-12)
	testutil.RequireNear(t, "x=0.5", interpolate(0.5, xp, fp), 1, 1e-12)
	testutil.RequireNear(t, "x=0.75", interpolate(0.75, xp, fp), 2.5, 1e-12)
}
