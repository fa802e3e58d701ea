package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pulsefit/internal/config"
	"github.com/cwbudde/algo-pulsefit/match"
	"github.com/cwbudde/algo-pulsefit/stats/pulse"
)

type fitRow struct {
	Name     string    `yaml:"name" msgpack:"name"`
	Template string    `yaml:"template" msgpack:"template"`
	Sigma    float64   `yaml:"sigma" msgpack:"sigma"`
	DeltaT   float64   `yaml:"delta_t" msgpack:"delta_t"`
	A        float64   `yaml:"a" msgpack:"a"`
	B        float64   `yaml:"b" msgpack:"b"`
	Residual float64   `yaml:"residual" msgpack:"residual"`
	Singular bool      `yaml:"singular,omitempty" msgpack:"singular,omitempty"`
	Used     int       `yaml:"used" msgpack:"used"`
	Estimate []float64 `yaml:"estimate,omitempty,flow" msgpack:"estimate,omitempty"`
}

func fitRows(names []string, matches []match.Match) []fitRow {
	rows := make([]fitRow, len(matches))
	for i, m := range matches {
		rows[i] = fitRow{
			Name:     names[i],
			Template: m.Template,
			Sigma:    m.Sigma,
			DeltaT:   m.DeltaT,
			A:        m.A,
			B:        m.B,
			Residual: m.Residual,
			Singular: m.Singular,
			Used:     m.Used,
			Estimate: m.Estimate,
		}
	}
	return rows
}

type statsRow struct {
	Name       string  `yaml:"name" msgpack:"name"`
	Centroid   float64 `yaml:"centroid" msgpack:"centroid"`
	Spread     float64 `yaml:"spread" msgpack:"spread"`
	Sigma      float64 `yaml:"sigma" msgpack:"sigma"`
	Iterations int     `yaml:"iterations" msgpack:"iterations"`
	Baseline   float64 `yaml:"baseline" msgpack:"baseline"`
	Peak       float64 `yaml:"peak" msgpack:"peak"`
	PeakTime   float64 `yaml:"peak_time" msgpack:"peak_time"`
}

func newStatsRow(name string, r pulse.Result, sigma float64, lv pulse.Levels) statsRow {
	return statsRow{
		Name:       name,
		Centroid:   r.Centroid,
		Spread:     r.Spread,
		Sigma:      sigma,
		Iterations: r.Iterations,
		Baseline:   lv.Baseline,
		Peak:       lv.Peak,
		PeakTime:   lv.PeakTime,
	}
}

func writeFits(w io.Writer, format string, rows []fitRow) error {
	switch format {
	case config.FormatYAML:
		return encodeYAML(w, rows)
	case config.FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTEMPLATE\tSIGMA\tDELTA_T\tA\tB\tRESIDUAL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			r.Name, r.Template, r.Sigma, r.DeltaT, r.A, r.B, r.Residual)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, format string, rows []statsRow) error {
	switch format {
	case config.FormatYAML:
		return encodeYAML(w, rows)
	case config.FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCENTROID\tSPREAD\tSIGMA\tITERATIONS\tBASELINE\tPEAK\tPEAK_T")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%d\t%.4g\t%.4g\t%.4g\n",
			r.Name, r.Centroid, r.Spread, r.Sigma, r.Iterations, r.Baseline, r.Peak, r.PeakTime)
	}
	return tw.Flush()
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
