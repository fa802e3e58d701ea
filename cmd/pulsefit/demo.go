package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pulsefit/dsp/broaden"
	"github.com/cwbudde/algo-pulsefit/dsp/signal"
	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
	"github.com/cwbudde/algo-pulsefit/internal/config"
	"github.com/cwbudde/algo-pulsefit/match"
)

const (
	demoStep     = 0.05
	demoSamples  = 200
	demoTau      = 0.25
	demoBaseline = 0.25
)

// demoPulses lists onset time and broadening of the synthetic observations.
var demoPulses = []struct {
	onset, sigma float64
}{
	{onset: 3, sigma: 0.2},
	{onset: 4, sigma: 0.3},
	{onset: 5, sigma: 0.4},
}

type demoFlags struct {
	workers int
	noise   float64
	seed    int64
}

func newDemoCmd(g *globals) *cobra.Command {
	var flags demoFlags
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fit synthetic broadened exponential pulses against a Gaussian library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, g, &flags)
		},
	}
	cmd.Flags().IntVar(&flags.workers, "workers", 1, "observations fitted concurrently")
	cmd.Flags().Float64Var(&flags.noise, "noise", 0, "white noise amplitude added to each observation")
	cmd.Flags().Int64Var(&flags.seed, "seed", 1, "noise seed")
	return cmd
}

func runDemo(cmd *cobra.Command, g *globals, flags *demoFlags) error {
	format, err := g.resolveFormat("")
	if err != nil {
		return err
	}
	lib, obs, names, err := demoData(signal.NewGenerator(signal.WithSeed(flags.seed)), flags.noise)
	if err != nil {
		return err
	}

	m := match.New(match.WithWorkers(flags.workers), match.WithLogger(g.logger))
	matches, err := m.FitCatalog(cmd.Context(), obs, lib, config.DefaultSigmas(), config.DefaultShifts())
	if err != nil {
		return err
	}

	w, closeFn, err := g.writer(cmd, "")
	if err != nil {
		return err
	}
	if err := writeFits(w, format, fitRows(names, matches)); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

// demoData builds one-sided exponential pulses broadened by a Gaussian,
// normalized to unit peak on a raised baseline, and a library of two
// Gaussians centred at zero.
func demoData(gen *signal.Generator, noise float64) (match.Library, []waveform.Waveform, []string, error) {
	grid := waveform.Grid(demoSamples, demoStep, 0)

	var jitter []float64
	if noise > 0 {
		var err error
		if jitter, err = gen.WhiteNoise(noise, demoSamples); err != nil {
			return nil, nil, nil, err
		}
	}

	obs := make([]waveform.Waveform, len(demoPulses))
	names := make([]string, len(demoPulses))
	for i, dp := range demoPulses {
		p, err := gen.Exponential(grid, dp.onset, demoTau)
		if err != nil {
			return nil, nil, nil, err
		}
		raw, err := waveform.NewRegular(p, demoStep, 0)
		if err != nil {
			return nil, nil, nil, err
		}
		smooth, err := broaden.Profile(raw, dp.sigma)
		if err != nil {
			return nil, nil, nil, err
		}
		if smooth, err = signal.Normalize(smooth, 1); err != nil {
			return nil, nil, nil, err
		}
		for j := range smooth {
			smooth[j] += demoBaseline
			if jitter != nil {
				smooth[j] += jitter[j]
			}
		}
		if obs[i], err = waveform.NewRegular(smooth, demoStep, 0); err != nil {
			return nil, nil, nil, err
		}
		names[i] = fmt.Sprintf("pulse@%g", dp.onset)
	}

	lib := match.Library{}
	tg := waveform.Grid(600, demoStep, -15)
	for _, width := range []float64{0.25, 0.5} {
		p, err := gen.Gaussian(tg, 0, width, 1)
		if err != nil {
			return nil, nil, nil, err
		}
		w, err := waveform.NewRegular(p, demoStep, -15)
		if err != nil {
			return nil, nil, nil, err
		}
		lib[fmt.Sprintf("gauss%g", width)] = w
	}

	return lib, obs, names, nil
}
