// Command pulsefit matches observed pulse waveforms against a template
// library.
//
// Usage:
//
//	pulsefit fit [flags] run.yaml
//	pulsefit stats [flags] run.toml
//	pulsefit demo [flags]
//
// A run file lists the templates, the observations and the search settings.
// YAML (.yaml, .yml) and TOML (.toml) are accepted.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulsefit/internal/config"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by all commands.
type globals struct {
	debug  bool
	format string
	output string
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "pulsefit",
		Short:         "Fit pulse waveforms against a template library",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := newLogger(g.debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			g.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "", "output format: table, yaml or msgpack (default: from run file, else table)")
	rootCmd.PersistentFlags().StringVarP(&g.output, "output", "o", "", "write results to this file instead of stdout")

	rootCmd.AddCommand(newFitCmd(g))
	rootCmd.AddCommand(newStatsCmd(g))
	rootCmd.AddCommand(newDemoCmd(g))

	return rootCmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// resolveFormat prefers the --format flag over the run file setting.
func (g *globals) resolveFormat(fileFormat string) (string, error) {
	format := fileFormat
	if g.format != "" {
		format = g.format
	}
	if format == "" {
		format = config.FormatTable
	}
	switch format {
	case config.FormatTable, config.FormatYAML, config.FormatMsgpack:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", config.ErrBadFormat, format)
	}
}

// writer returns the destination for results and a function closing it.
func (g *globals) writer(cmd *cobra.Command, filePath string) (io.Writer, func() error, error) {
	path := filePath
	if g.output != "" {
		path = g.output
	}
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
