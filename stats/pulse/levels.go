package pulse

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Levels summarizes the amplitude of a pulse on a background.
type Levels struct {
	Baseline float64 // median amplitude
	Peak     float64 // maximum amplitude above the baseline
	PeakTime float64 // time of the maximum
	RMS      float64 // root-mean-square deviation from the baseline
}

// Amplitude returns the levels of w over mask. The baseline is the median
// amplitude, so a pulse occupying less than half of the selected samples
// does not bias it.
func Amplitude(w waveform.Waveform, mask []bool) (Levels, error) {
	t, p, err := subset(w, mask)
	if err != nil {
		return Levels{}, err
	}

	sorted := append([]float64(nil), p...)
	sort.Float64s(sorted)
	base := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	imax := floats.MaxIdx(p)

	var sumSq float64
	for _, v := range p {
		d := v - base
		sumSq += d * d
	}

	return Levels{
		Baseline: base,
		Peak:     p[imax] - base,
		PeakTime: t[imax],
		RMS:      math.Sqrt(sumSq / float64(len(p))),
	}, nil
}
