package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pulsefit/internal/config"
	"github.com/cwbudde/algo-pulsefit/stats/pulse"
)

type statsFlags struct {
	clip    float64
	maxIter int
}

func newStatsCmd(g *globals) *cobra.Command {
	var flags statsFlags
	cmd := &cobra.Command{
		Use:   "stats <run-file>",
		Short: "Print the clipped centroid and spread of every observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, g, &flags, args[0])
		},
	}
	cmd.Flags().Float64Var(&flags.clip, "clip", 3, "clipping half-width in robust spreads")
	cmd.Flags().IntVar(&flags.maxIter, "max-iterations", 20, "maximum clipping passes")
	return cmd
}

func runStats(cmd *cobra.Command, g *globals, flags *statsFlags, path string) error {
	f, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load run file: %w", err)
	}
	format, err := g.resolveFormat(f.Output.Format)
	if err != nil {
		return err
	}
	obs, err := f.Waveforms()
	if err != nil {
		return err
	}

	names := f.Names()
	rows := make([]statsRow, len(obs))
	for i, w := range obs {
		r, err := pulse.IterativeCentroid(w, pulse.WithClip(flags.clip), pulse.WithMaxIterations(flags.maxIter))
		if err != nil {
			return fmt.Errorf("observation %s: %w", names[i], err)
		}
		sigma, err := pulse.Sigma(w, nil)
		if err != nil {
			return fmt.Errorf("observation %s: %w", names[i], err)
		}
		lv, err := pulse.Amplitude(w, nil)
		if err != nil {
			return fmt.Errorf("observation %s: %w", names[i], err)
		}
		rows[i] = newStatsRow(names[i], r, sigma, lv)
	}

	out, closeFn, err := g.writer(cmd, f.Output.Path)
	if err != nil {
		return err
	}
	if err := writeStats(out, format, rows); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
