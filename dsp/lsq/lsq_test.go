package lsq

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulsefit/internal/testutil"
)

func TestFitRecoversAffineCoefficients(t *testing.T) {
	grid := testutil.Grid(200, 0.1, 0)
	cand := testutil.GaussianPulse(grid, 10, 1.5, 1)

	tests := []struct {
		name  string
		noise float64
		tol   float64
	}{
		{name: "noiseless", noise: 0, tol: 1e-9},
		{name: "small noise", noise: 1e-3, tol: 5e-3},
		{name: "tiny noise", noise: 1e-6, tol: 5e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := testutil.Add(testutil.Affine(cand, 2, 5), testutil.DeterministicNoise(11, tt.noise, len(cand)))

			res, err := Fit(cand, obs)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if res.Singular {
				t.Fatal("unexpected singular fit")
			}
			testutil.RequireNear(t, "A", res.A, 2, tt.tol)
			testutil.RequireNear(t, "B", res.B, 5, tt.tol)
			if res.Used != len(cand) {
				t.Fatalf("Used = %d, want %d", res.Used, len(cand))
			}
			if res.Residual > tt.noise*math.Sqrt(float64(len(cand)))+1e-9 {
				t.Fatalf("residual %v above noise floor", res.Residual)
			}
		})
	}
}

func TestFitSkipsNonFiniteSamples(t *testing.T) {
	cand := []float64{1, 2, math.NaN(), 4, 5, 6}
	obs := []float64{3, 5, 7, math.Inf(1), 11, 13}

	res, err := Fit(cand, obs)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.Used != 4 {
		t.Fatalf("Used = %d, want 4", res.Used)
	}
	testutil.RequireNear(t, "A", res.A, 2, 1e-12)
	testutil.RequireNear(t, "B", res.B, 1, 1e-12)
	testutil.RequireNear(t, "residual", res.Residual, 0, 1e-12)
}

func TestFitSingularFallsBackToZero(t *testing.T) {
	obs := []float64{3, 4, 0}

	for name, cand := range map[string][]float64{
		"zero candidate":     {0, 0, 0},
		"constant candidate": {2, 2, 2},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Fit(cand, obs)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if !res.Singular {
				t.Fatal("expected singular fit")
			}
			if res.A != 0 || res.B != 0 {
				t.Fatalf("coefficients = (%v, %v), want zeros", res.A, res.B)
			}
			testutil.RequireNear(t, "residual", res.Residual, 5, 1e-12)
		})
	}
}

func TestFitLengthMismatch(t *testing.T) {
	if _, err := Fit([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestEstimate(t *testing.T) {
	r := Result{A: 2, B: -1}
	got := r.Estimate([]float64{0, 1, 2.5})
	testutil.RequireSliceNearlyEqual(t, got, []float64{-1, 1, 4}, 1e-15)
}

func TestFitterReuse(t *testing.T) {
	var f Fitter
	a := []float64{1, 2, 3, 4}

	r1, _ := f.Fit(a, testutil.Affine(a, 3, 0))
	r2, _ := f.Fit(a[:3], testutil.Affine(a[:3], -1, 2))

	testutil.RequireNear(t, "first A", r1.A, 3, 1e-12)
	testutil.RequireNear(t, "second A", r2.A, -1, 1e-12)
	testutil.RequireNear(t, "second B", r2.B, 2, 1e-12)
}

func TestFitNoFiniteSamples(t *testing.T) {
	nan := math.NaN()
	r, err := Fit([]float64{1, nan, 3}, []float64{nan, 2, math.Inf(1)})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if r.Used != 0 || !r.Singular || r.Residual != 0 {
		t.Fatalf("Fit() = %+v, want Used 0, Singular and zero residual", r)
	}
}
