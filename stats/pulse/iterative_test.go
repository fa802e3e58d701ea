package pulse

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
	"github.com/cwbudde/algo-pulsefit/internal/testutil"
)

func pulseWithOutlier(t *testing.T) waveform.Waveform {
	t.Helper()
	grid := testutil.Grid(501, 0.05, 0)
	main := testutil.GaussianPulse(grid, 10, 1, 1)
	bump := testutil.GaussianPulse(grid, 18, 0.3, 0.2)
	w, err := waveform.New(grid, testutil.Add(main, bump))
	if err != nil {
		t.Fatalf("waveform.New: %v", err)
	}
	return w
}

func TestIterativeCentroidRejectsOutlier(t *testing.T) {
	w := pulseWithOutlier(t)

	naive, err := Centroid(w, nil)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if naive < 10.2 {
		t.Fatalf("outlier should bias the plain centroid, got %v", naive)
	}

	res, err := IterativeCentroid(w)
	if err != nil {
		t.Fatalf("IterativeCentroid: %v", err)
	}
	testutil.RequireNear(t, "centroid", res.Centroid, 10, 0.02)
	if math.Abs(res.Spread-1) > 0.05 {
		t.Fatalf("spread = %v, want ~1", res.Spread)
	}
	if res.Iterations == 0 || res.Iterations > 20 {
		t.Fatalf("iterations = %d", res.Iterations)
	}
}

func TestIterativeCentroidIterationCap(t *testing.T) {
	w := pulseWithOutlier(t)

	res, err := IterativeCentroid(w, WithMaxIterations(0))
	if err != nil {
		t.Fatalf("IterativeCentroid: %v", err)
	}
	if res.Iterations != 0 {
		t.Fatalf("iterations = %d, want 0", res.Iterations)
	}
	naive, _ := Centroid(w, nil)
	testutil.RequireNear(t, "uncapped centroid", res.Centroid, naive, 1e-12)
}

func TestIterativeCentroidIgnoresNegativeSamples(t *testing.T) {
	grid := testutil.Grid(401, 0.05, 0)
	p := testutil.GaussianPulse(grid, 8, 1, 1)
	p[10] = -50 // a large negative spike must not drag the centroid

	w, _ := waveform.New(grid, p)
	res, err := IterativeCentroid(w, WithClip(4), WithTolerance(1e-4))
	if err != nil {
		t.Fatalf("IterativeCentroid: %v", err)
	}
	testutil.RequireNear(t, "centroid", res.Centroid, 8, 0.01)
}

func TestIterativeCentroidAllNonPositive(t *testing.T) {
	grid := testutil.Grid(5, 1, 0)
	w, _ := waveform.New(grid, []float64{-1, 0, -2, 0, -1})
	if _, err := IterativeCentroid(w); !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("err = %v, want ErrZeroWeight", err)
	}
}

func TestIterativeCentroidMaskLength(t *testing.T) {
	w := pulseWithOutlier(t)
	if _, err := IterativeCentroid(w, WithMask([]bool{true})); !errors.Is(err, ErrMaskLength) {
		t.Fatalf("err = %v, want ErrMaskLength", err)
	}
}
