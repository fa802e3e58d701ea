package match

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Match is the winning fit for one observation. Used counts the samples
// that entered the fit; a zero-residual match with Used == 0 carries no
// information about the observation.
type Match struct {
	Template string    `yaml:"template" msgpack:"template"`
	Sigma    float64   `yaml:"sigma" msgpack:"sigma"`
	DeltaT   float64   `yaml:"delta_t" msgpack:"delta_t"`
	A        float64   `yaml:"a" msgpack:"a"`
	B        float64   `yaml:"b" msgpack:"b"`
	Residual float64   `yaml:"residual" msgpack:"residual"`
	Singular bool      `yaml:"singular,omitempty" msgpack:"singular,omitempty"`
	Used     int       `yaml:"used" msgpack:"used"`
	Estimate []float64 `yaml:"estimate,omitempty" msgpack:"estimate,omitempty"`
}

// Matcher fits observations against a template library. A Matcher holds
// only configuration; all search state lives in per-observation sessions.
type Matcher struct {
	cfg Config
}

// New returns a Matcher configured by opts.
func New(opts ...Option) *Matcher {
	return &Matcher{cfg: ApplyOptions(opts...)}
}

// Config returns the matcher's settings.
func (m *Matcher) Config() Config {
	return m.cfg
}

// FitOne finds the best template, broadening and shift for a single
// observation.
func (m *Matcher) FitOne(obs waveform.Waveform, lib Library, sigmas, shifts []float64) (Match, error) {
	if err := lib.Validate(); err != nil {
		return Match{}, err
	}
	return m.fit(obs, lib, sigmas, shifts, nil)
}

// FitCatalog fits every observation and returns the matches in input order.
// With more than one worker, observations are fitted concurrently, each in
// its own session. The context is checked between observations; a running
// fit is not interrupted. The first error cancels the remaining work.
func (m *Matcher) FitCatalog(ctx context.Context, obs []waveform.Waveform, lib Library, sigmas, shifts []float64) ([]Match, error) {
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	if err := checkSigmas(sigmas); err != nil {
		return nil, err
	}

	var shared *ProfileCache
	if m.cfg.SharedProfiles {
		shared = NewProfileCache()
	}

	out := make([]Match, len(obs))
	start := time.Now()

	if m.cfg.Workers < 2 || len(obs) < 2 {
		for i := range obs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := m.fit(obs[i], lib, sigmas, shifts, shared)
			if err != nil {
				return nil, fmt.Errorf("match: observation %d: %w", i, err)
			}
			out[i] = r
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.cfg.Workers)
		for i := range obs {
			if err := gctx.Err(); err != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r, err := m.fit(obs[i], lib, sigmas, shifts, shared)
				if err != nil {
					return fmt.Errorf("match: observation %d: %w", i, err)
				}
				out[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	m.cfg.Logger.Info("catalog fitted",
		zap.Int("observations", len(obs)),
		zap.Int("templates", len(lib)),
		zap.Int("workers", m.cfg.Workers),
		zap.Duration("elapsed", time.Since(start)))

	return out, nil
}

func (m *Matcher) fit(obs waveform.Waveform, lib Library, sigmas, shifts []float64, shared *ProfileCache) (Match, error) {
	s, err := newSession(obs, lib, m.cfg, shared)
	if err != nil {
		return Match{}, err
	}
	r, err := s.Best(sigmas, shifts)
	if err != nil {
		return Match{}, err
	}

	st := s.Stats()
	m.cfg.Logger.Debug("observation fitted",
		zap.String("template", r.Template),
		zap.Float64("sigma", r.Sigma),
		zap.Float64("delta_t", r.DeltaT),
		zap.Float64("residual", r.Residual),
		zap.Int("fits", st.Fits),
		zap.Int("fit_hits", st.FitHits),
		zap.Int("resamples", st.Resamples))
	return r, nil
}
