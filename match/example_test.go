package match_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
	"github.com/cwbudde/algo-pulsefit/match"
)

func ExampleMatcher_FitOne() {
	gauss := func(center, sigma float64) []float64 {
		p := make([]float64, 81)
		for i := range p {
			d := (float64(i) - center) / sigma
			p[i] = math.Exp(-0.5 * d * d)
		}
		return p
	}

	narrow, _ := waveform.NewRegular(gauss(40, 2), 1, 0)
	box := make([]float64, 81)
	for i := 30; i < 50; i++ {
		box[i] = 1
	}
	flat, _ := waveform.NewRegular(box, 1, 0)
	lib := match.Library{"narrow": narrow, "box": flat}

	// A shifted, scaled copy of the narrow pulse on a raised baseline.
	p := gauss(42, 2)
	for i := range p {
		p[i] = 4*p[i] + 1
	}
	obs, _ := waveform.NewRegular(p, 1, 0)

	m := match.New()
	r, err := m.FitOne(obs, lib, []float64{0, 1, 2}, []float64{-4, -2, 0, 2, 4})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s sigma=%g delta_t=%g a=%.2f b=%.2f\n", r.Template, r.Sigma, r.DeltaT, r.A, r.B)
	// Output: narrow sigma=0 delta_t=2 a=4.00 b=1.00
}
