package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulsefit/internal/config"
	"github.com/cwbudde/algo-pulsefit/match"
)

type fitFlags struct {
	workers  int
	estimate bool
	trace    bool
}

func newFitCmd(g *globals) *cobra.Command {
	var flags fitFlags
	cmd := &cobra.Command{
		Use:   "fit <run-file>",
		Short: "Fit every observation of a run file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, g, &flags, args[0])
		},
	}
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "observations fitted concurrently (default: from run file)")
	cmd.Flags().BoolVar(&flags.estimate, "estimate", false, "include the fitted model waveform in the output")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "log every evaluated candidate (implies debug output)")
	return cmd
}

func runFit(cmd *cobra.Command, g *globals, flags *fitFlags, path string) error {
	f, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load run file: %w", err)
	}
	if cmd.Flags().Changed("workers") {
		f.Search.Workers = flags.workers
	}
	if cmd.Flags().Changed("estimate") {
		f.Search.Estimate = flags.estimate
	}
	format, err := g.resolveFormat(f.Output.Format)
	if err != nil {
		return err
	}

	lib, err := f.Library()
	if err != nil {
		return err
	}
	obs, err := f.Waveforms()
	if err != nil {
		return err
	}

	opts := append(f.Search.MatchOptions(), match.WithLogger(g.logger))
	if flags.trace {
		opts = append(opts, match.WithObserver(match.LogObserver{Logger: g.logger}))
	}

	g.logger.Debug("fitting run file",
		zap.String("path", path),
		zap.Int("templates", len(lib)),
		zap.Int("observations", len(obs)))

	matches, err := match.New(opts...).FitCatalog(cmd.Context(), obs, lib, f.Search.Sigmas, f.Search.Shifts)
	if err != nil {
		return err
	}

	w, closeFn, err := g.writer(cmd, f.Output.Path)
	if err != nil {
		return err
	}
	if err := writeFits(w, format, fitRows(f.Names(), matches)); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
