package match

import (
	"testing"

	"github.com/cwbudde/algo-pulsefit/dsp/broaden"
	"github.com/cwbudde/algo-pulsefit/dsp/interp"
	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
	"github.com/cwbudde/algo-pulsefit/internal/testutil"
)

const testSamples = 128

func testGrid() []float64 {
	return testutil.Grid(testSamples, 1, 0)
}

// testLibrary holds an exponential pulse "A" and a wide Gaussian "B".
func testLibrary(t *testing.T) Library {
	t.Helper()
	grid := testGrid()

	a, err := waveform.New(grid, testutil.ExponentialPulse(grid, 40, 6))
	if err != nil {
		t.Fatalf("waveform.New(A): %v", err)
	}
	b, err := waveform.New(grid, testutil.GaussianPulse(grid, 50, 8, 1))
	if err != nil {
		t.Fatalf("waveform.New(B): %v", err)
	}

	return Library{"A": a, "B": b}
}

// synthesize broadens tpl by sigma, delays it by deltaT and applies gain
// and offset, exactly as the search builds its candidates.
func synthesize(t *testing.T, tpl waveform.Waveform, sigma, deltaT, gain, offset float64) waveform.Waveform {
	t.Helper()

	prof, err := broaden.Profile(tpl, sigma)
	if err != nil {
		t.Fatalf("broaden.Profile: %v", err)
	}

	xi := make([]float64, testSamples)
	for i, ti := range testGrid() {
		xi[i] = ti - deltaT
	}
	shifted, err := interp.ShiftVector(xi, tpl.Grid(), prof, tpl.Spacing())
	if err != nil {
		t.Fatalf("interp.ShiftVector: %v", err)
	}

	obs, err := waveform.NewRegular(testutil.Affine(shifted, gain, offset), 1, 0)
	if err != nil {
		t.Fatalf("waveform.NewRegular: %v", err)
	}
	return obs
}

// shiftGrid returns the initial shift candidates -3, -2.5, ..., 3.
func shiftGrid() []float64 {
	return testutil.Grid(13, 0.5, -3)
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

type recordingObserver struct {
	started, evaluated, finished int
	lastBest                     Key
}

func (o *recordingObserver) SearchStarted(Key, waveform.Waveform) { o.started++ }

func (o *recordingObserver) Evaluated(_ Key, _ float64, candidate []float64) {
	if len(candidate) != testSamples {
		panic("candidate not on observation grid")
	}
	o.evaluated++
}

func (o *recordingObserver) SearchFinished(_, best Key, _ float64) {
	o.finished++
	o.lastBest = best
}
