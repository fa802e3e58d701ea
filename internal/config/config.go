// Package config loads pulsefit run descriptions from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
	"github.com/cwbudde/algo-pulsefit/match"
)

// Errors returned by Load and File.Validate.
var (
	ErrUnknownFormat = errors.New("config: unknown file format")
	ErrNoTemplates   = errors.New("config: no templates")
	ErrDuplicateID   = errors.New("config: duplicate template id")
	ErrBadFormat     = errors.New("config: unknown output format")
)

// Output formats understood by the CLI.
const (
	FormatTable   = "table"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

// File is a complete run description: search settings, the template
// library and the observations to fit.
type File struct {
	Search       Search        `yaml:"search" toml:"search"`
	Output       Output        `yaml:"output" toml:"output"`
	Templates    []Template    `yaml:"templates" toml:"templates"`
	Observations []Observation `yaml:"observations" toml:"observations"`
}

// Search maps the search settings.
type Search struct {
	Sigmas         []float64 `yaml:"sigmas" toml:"sigmas"`
	Shifts         []float64 `yaml:"shifts" toml:"shifts"`
	TimeTolerance  float64   `yaml:"time_tolerance" toml:"time_tolerance"`
	MaxRefinements int       `yaml:"max_refinements" toml:"max_refinements"`
	Workers        int       `yaml:"workers" toml:"workers"`
	SharedProfiles bool      `yaml:"shared_profiles" toml:"shared_profiles"`
	Estimate       bool      `yaml:"estimate" toml:"estimate"`
}

// Output maps the result settings.
type Output struct {
	Format string `yaml:"format" toml:"format"`
	Path   string `yaml:"path" toml:"path"`
}

// Template is a library entry. Times are given either explicitly in T or
// as a regular grid through TSamp and TStart.
type Template struct {
	ID     string    `yaml:"id" toml:"id"`
	T      []float64 `yaml:"t,flow" toml:"t"`
	P      []float64 `yaml:"p,flow" toml:"p"`
	TSamp  float64   `yaml:"t_samp" toml:"t_samp"`
	TStart float64   `yaml:"t_start" toml:"t_start"`
}

// Observation is one observed waveform on a regular grid.
type Observation struct {
	Name   string    `yaml:"name" toml:"name"`
	P      []float64 `yaml:"p,flow" toml:"p"`
	TSamp  float64   `yaml:"t_samp" toml:"t_samp"`
	TStart float64   `yaml:"t_start" toml:"t_start"`
}

// DefaultSigmas returns 0, 0.25, ..., 3.75.
func DefaultSigmas() []float64 {
	return arange(0, 4, 0.25)
}

// DefaultShifts returns -6, -5.75, ..., 5.75.
func DefaultShifts() []float64 {
	return arange(-6, 6, 0.25)
}

func arange(start, stop, step float64) []float64 {
	n := int((stop - start) / step)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Load reads a run description. The format is chosen by extension:
// .yaml and .yml are YAML, .toml is TOML. Defaults are applied after
// decoding.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	f.ApplyDefaults()
	return &f, nil
}

// ApplyDefaults fills unset search and output settings.
func (f *File) ApplyDefaults() {
	if len(f.Search.Sigmas) == 0 {
		f.Search.Sigmas = DefaultSigmas()
	}
	if len(f.Search.Shifts) == 0 {
		f.Search.Shifts = DefaultShifts()
	}
	if f.Search.Workers <= 0 {
		f.Search.Workers = 1
	}
	if f.Output.Format == "" {
		f.Output.Format = FormatTable
	}
}

// Validate checks the output format and that templates are present.
func (f *File) Validate() error {
	switch f.Output.Format {
	case FormatTable, FormatYAML, FormatMsgpack:
	default:
		return fmt.Errorf("%w: %q", ErrBadFormat, f.Output.Format)
	}
	if len(f.Templates) == 0 {
		return ErrNoTemplates
	}
	return nil
}

// Library builds the template library.
func (f *File) Library() (match.Library, error) {
	if len(f.Templates) == 0 {
		return nil, ErrNoTemplates
	}

	lib := make(match.Library, len(f.Templates))
	for i, tc := range f.Templates {
		if tc.ID == "" {
			return nil, fmt.Errorf("config: template %d has no id", i)
		}
		if _, dup := lib[tc.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, tc.ID)
		}

		var (
			w   waveform.Waveform
			err error
		)
		if len(tc.T) > 0 {
			w, err = waveform.New(tc.T, tc.P)
		} else {
			w, err = waveform.NewRegular(tc.P, tc.TSamp, tc.TStart)
		}
		if err != nil {
			return nil, fmt.Errorf("config: template %q: %w", tc.ID, err)
		}
		lib[tc.ID] = w
	}
	return lib, nil
}

// Waveforms builds the observations on their regular grids.
func (f *File) Waveforms() ([]waveform.Waveform, error) {
	out := make([]waveform.Waveform, len(f.Observations))
	for i, oc := range f.Observations {
		w, err := waveform.NewRegular(oc.P, oc.TSamp, oc.TStart)
		if err != nil {
			return nil, fmt.Errorf("config: observation %d (%s): %w", i, oc.Name, err)
		}
		out[i] = w
	}
	return out, nil
}

// Names returns observation names, numbering unnamed ones.
func (f *File) Names() []string {
	out := make([]string, len(f.Observations))
	for i, oc := range f.Observations {
		out[i] = oc.Name
		if out[i] == "" {
			out[i] = fmt.Sprintf("obs%d", i)
		}
	}
	return out
}

// MatchOptions converts the search settings to matcher options.
func (s Search) MatchOptions() []match.Option {
	opts := []match.Option{
		match.WithWorkers(s.Workers),
		match.WithSharedProfiles(s.SharedProfiles),
		match.WithEstimate(s.Estimate),
	}
	if s.TimeTolerance > 0 {
		opts = append(opts, match.WithTimeTolerance(s.TimeTolerance))
	}
	if s.MaxRefinements > 0 {
		opts = append(opts, match.WithMaxRefinements(s.MaxRefinements))
	}
	return opts
}
