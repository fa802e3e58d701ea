package match

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulsefit/dsp/broaden"
	"github.com/cwbudde/algo-pulsefit/dsp/interp"
	"github.com/cwbudde/algo-pulsefit/dsp/lsq"
	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Session fits one observation against a library. It owns the caches and
// the search tree for that observation and is not safe for concurrent use.
type Session struct {
	obs     waveform.Waveform
	grid    []float64
	regular bool
	lib     Library
	cfg     Config
	tol     float64

	cache  *Cache
	tree   *tree
	fitter lsq.Fitter
	xi     []float64
}

// NewSession validates obs and lib and returns a session for them.
func NewSession(obs waveform.Waveform, lib Library, opts ...Option) (*Session, error) {
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return newSession(obs, lib, ApplyOptions(opts...), nil)
}

// newSession assumes lib has been validated.
func newSession(obs waveform.Waveform, lib Library, cfg Config, shared *ProfileCache) (*Session, error) {
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("match: observation: %w", err)
	}
	s := &Session{
		obs:     obs,
		grid:    obs.Grid(),
		regular: obs.IsRegular(),
		lib:     lib,
		cfg:     cfg,
		tol:     cfg.tolerance(obs),
		cache:   newCache(shared),
		tree:    newTree(),
	}
	return s, nil
}

// Cache exposes the session's memo store.
func (s *Session) Cache() *Cache {
	return s.cache
}

// Stats returns the session's cache counters.
func (s *Session) Stats() CacheStats {
	return s.cache.Stats()
}

// Tolerance returns the shift convergence tolerance in effect.
func (s *Session) Tolerance() float64 {
	return s.tol
}

// Evaluate returns the misfit of template base, broadened by sigma and
// shifted by deltaT, against the observation. Repeated calls with the same
// arguments return the cached residual without refitting.
func (s *Session) Evaluate(deltaT, sigma float64, base Key) (float64, error) {
	rec, err := s.evaluate(base.WithSigma(sigma).WithShift(deltaT))
	if err != nil {
		return 0, err
	}
	return rec.Residual, nil
}

// EvaluateEstimate is Evaluate that also returns the fitted model sampled on
// the observation grid. On a cache hit the estimate is rebuilt from the
// cached coefficients.
func (s *Session) EvaluateEstimate(deltaT, sigma float64, base Key) (FitRecord, []float64, error) {
	k := base.WithSigma(sigma).WithShift(deltaT)
	return s.estimate(k)
}

func (s *Session) estimate(k Key) (FitRecord, []float64, error) {
	if rec, ok := s.cache.fits[k]; ok {
		cand, ok := s.cache.shifted[k]
		if !ok {
			return FitRecord{}, nil, fmt.Errorf("match: no candidate cached for %v", k)
		}
		s.cache.stats.EstimateRebuilds++
		return rec, rec.lsq().Estimate(cand), nil
	}

	rec, err := s.evaluate(k)
	if err != nil {
		return FitRecord{}, nil, err
	}
	return rec, rec.lsq().Estimate(s.cache.shifted[k]), nil
}

func (s *Session) evaluate(k Key) (FitRecord, error) {
	k.mustBe(LevelShift, "Session.evaluate")
	if rec, ok := s.cache.fits[k]; ok {
		s.cache.stats.FitHits++
		return rec, nil
	}

	tpl, err := s.lib.template(k)
	if err != nil {
		return FitRecord{}, err
	}

	sk := k.Parent()
	prof, err := s.cache.profile(sk, func() ([]float64, error) {
		return broaden.Profile(tpl, sk.Sigma())
	})
	if err != nil {
		return FitRecord{}, fmt.Errorf("match: broaden %v: %w", sk, err)
	}

	cand, err := s.cache.candidate(k, func() ([]float64, error) {
		return s.resample(tpl, prof, k.Shift())
	})
	if err != nil {
		return FitRecord{}, fmt.Errorf("match: resample %v: %w", k, err)
	}

	res, err := s.fitter.Fit(cand, s.obs.P)
	if err != nil {
		return FitRecord{}, fmt.Errorf("match: fit %v: %w", k, err)
	}
	s.cache.stats.Fits++

	rec := FitRecord{
		Key:      k,
		Residual: res.Residual,
		A:        res.A,
		B:        res.B,
		DeltaT:   k.Shift(),
		Sigma:    sk.Sigma(),
		Singular: res.Singular,
		Used:     res.Used,
	}
	s.cache.storeFit(rec)

	if res.Singular {
		s.cfg.Logger.Debug("singular fit", zap.Stringer("key", k), zap.Int("used", res.Used))
	}
	s.cfg.Observer.Evaluated(k, rec.Residual, cand)

	return rec, nil
}

// resample evaluates the broadened template prof at the observation times
// minus deltaT. An unshifted template already on the observation grid is
// used as is.
func (s *Session) resample(tpl waveform.Waveform, prof []float64, deltaT float64) ([]float64, error) {
	if deltaT == 0 && tpl.SameGrid(s.obs) {
		return prof, nil
	}
	s.cache.stats.Resamples++

	s.xi = s.xi[:0]
	for _, t := range s.grid {
		s.xi = append(s.xi, t-deltaT)
	}

	if s.regular {
		return interp.ShiftVector(s.xi, tpl.Grid(), prof, tpl.Spacing())
	}

	op, err := interp.NewRegularGridOperator(tpl.Grid(), s.xi, tpl.Spacing())
	if err != nil {
		return nil, err
	}
	return op.Apply(prof)
}
