package match

import (
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// defaultMaxRefinements bounds the shift refinement loop.
const defaultMaxRefinements = 200

// Config holds the search settings shared by all sessions of a Matcher.
type Config struct {
	// TimeTolerance ends shift refinement once two searched shifts are closer
	// than this. Zero selects one tenth of the observation sample interval.
	TimeTolerance float64

	// MaxRefinements caps refinement probes per shift search. Hitting the cap
	// is not an error; the best shift so far is returned.
	MaxRefinements int

	// Estimate attaches the reconstructed model waveform to each Match.
	Estimate bool

	// Workers is the number of observations fitted concurrently by
	// FitCatalog. Values below 2 fit sequentially.
	Workers int

	// SharedProfiles hoists broadened templates into a cache shared by all
	// observations of one FitCatalog call.
	SharedProfiles bool

	// Observer receives search progress, e.g. for diagnostic plots.
	Observer Observer

	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings used when no options are given.
func DefaultConfig() Config {
	return Config{
		MaxRefinements: defaultMaxRefinements,
		Workers:        1,
		Observer:       NopObserver{},
		Logger:         zap.NewNop(),
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithTimeTolerance sets the shift convergence tolerance.
func WithTimeTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 0 && !math.IsInf(tol, 0) {
			cfg.TimeTolerance = tol
		}
	}
}

// WithMaxRefinements caps refinement probes per shift search.
func WithMaxRefinements(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.MaxRefinements = n
		}
	}
}

// WithEstimate toggles reconstruction of the fitted model waveform.
func WithEstimate(on bool) Option {
	return func(cfg *Config) {
		cfg.Estimate = on
	}
}

// WithWorkers sets the number of observations fitted concurrently.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithSharedProfiles toggles the observation-independent profile cache.
func WithSharedProfiles(on bool) Option {
	return func(cfg *Config) {
		cfg.SharedProfiles = on
	}
}

// WithObserver installs a search observer.
func WithObserver(o Observer) Option {
	return func(cfg *Config) {
		if o != nil {
			cfg.Observer = o
		}
	}
}

// WithLogger installs a zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// tolerance returns the effective time tolerance for obs.
func (c Config) tolerance(obs waveform.Waveform) float64 {
	if c.TimeTolerance > 0 {
		return c.TimeTolerance
	}
	return obs.Spacing() / 10
}
