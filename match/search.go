package match

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulsefit/dsp/core"
)

// Errors reported for malformed search inputs.
var (
	ErrTooFewShifts = errors.New("match: need at least two distinct initial shifts")
	ErrBadShifts    = errors.New("match: shifts must be finite")
	ErrBadSigmas    = errors.New("match: sigmas must be non-empty, finite, non-negative and strictly ascending")
)

const (
	// Weights of the best and second-best shifts in a refinement probe.
	bestWeight   = 0.7
	secondWeight = 0.3
)

// ShiftResult is the outcome of a shift search at fixed broadening.
type ShiftResult struct {
	Key         Key // shift-level key of the best shift
	DeltaT      float64
	Residual    float64
	Searched    int // distinct shifts evaluated
	Refinements int // refinement probes after the initial shifts
}

// BroadeningResult is the outcome of a broadening scan for one template.
type BroadeningResult struct {
	Key      Key // sigma-level key of the best width
	Sigma    float64
	Residual float64
	Scanned  int // widths searched before the scan stopped
}

type probe struct {
	shift    float64
	residual float64
}

// SearchShift refines the shift of template base broadened by sigma, starting
// from the given candidate shifts. Each round probes 0.7*best + 0.3*second
// (ranked by residual) until two searched shifts are closer than the time
// tolerance, a probe repeats a searched shift, or MaxRefinements probes have
// been spent. The best shift found is linked under the sigma-level key.
func (s *Session) SearchShift(shifts []float64, sigma float64, base Key) (ShiftResult, error) {
	sk := base.WithSigma(sigma)

	for _, dt := range shifts {
		if !core.IsFinite(dt) {
			return ShiftResult{}, fmt.Errorf("%w: %v", ErrBadShifts, dt)
		}
	}
	initial := uniqueSorted(shifts)
	if len(initial) < 2 {
		return ShiftResult{}, fmt.Errorf("%w: got %d", ErrTooFewShifts, len(initial))
	}

	s.cfg.Observer.SearchStarted(sk, s.obs)

	searched := make([]probe, 0, len(initial)+8)
	for _, dt := range initial {
		rec, err := s.evaluate(sk.WithShift(dt))
		if err != nil {
			return ShiftResult{}, err
		}
		searched = append(searched, probe{shift: dt, residual: rec.Residual})
	}

	ranked := make([]probe, len(searched))
	refinements := 0
	for refinements < s.cfg.MaxRefinements && minGap(searched) >= s.tol {
		ranked = rankProbes(ranked[:0], searched)
		next := bestWeight*ranked[0].shift + secondWeight*ranked[1].shift

		i := sort.Search(len(searched), func(i int) bool { return searched[i].shift >= next })
		if i < len(searched) && searched[i].shift == next {
			break
		}

		rec, err := s.evaluate(sk.WithShift(next))
		if err != nil {
			return ShiftResult{}, err
		}
		searched = append(searched, probe{})
		copy(searched[i+1:], searched[i:])
		searched[i] = probe{shift: next, residual: rec.Residual}
		refinements++
	}
	if refinements == s.cfg.MaxRefinements && s.cfg.MaxRefinements > 0 {
		s.cfg.Logger.Debug("shift refinement cap reached",
			zap.Stringer("key", sk), zap.Int("refinements", refinements))
	}

	best := rankProbes(ranked[:0], searched)[0]
	bk := sk.WithShift(best.shift)
	s.tree.point(sk, bk, best.residual)
	s.cfg.Observer.SearchFinished(sk, bk, best.residual)

	return ShiftResult{
		Key:         bk,
		DeltaT:      best.shift,
		Residual:    best.residual,
		Searched:    len(searched),
		Refinements: refinements,
	}, nil
}

// SearchBroadening scans the ascending widths sigmas for template base,
// running SearchShift at each, and stops at the first width whose residual
// exceeds the previous one. The best width scanned is linked under base.
// Widths already searched in this session are not searched again.
func (s *Session) SearchBroadening(sigmas, shifts []float64, base Key) (BroadeningResult, error) {
	base.mustBe(LevelTemplate, "Session.SearchBroadening")
	if err := checkSigmas(sigmas); err != nil {
		return BroadeningResult{}, err
	}

	bestIdx := -1
	bestRes := math.Inf(1)
	prev := math.Inf(1)
	scanned := 0
	for i, sigma := range sigmas {
		res, ok := s.tree.searched(base.WithSigma(sigma))
		if !ok {
			r, err := s.SearchShift(shifts, sigma, base)
			if err != nil {
				return BroadeningResult{}, err
			}
			res = r.Residual
		}
		scanned++

		if bestIdx < 0 || res < bestRes {
			bestIdx, bestRes = i, res
		}
		if i > 0 && res > prev {
			break
		}
		prev = res
	}

	sk := base.WithSigma(sigmas[bestIdx])
	s.tree.point(base, sk, bestRes)

	return BroadeningResult{
		Key:      sk,
		Sigma:    sigmas[bestIdx],
		Residual: bestRes,
		Scanned:  scanned,
	}, nil
}

// Best runs the broadening scan for every library template in id order,
// links the lowest-residual template under the observation root and follows
// the best-pointer chain to the winning fit.
func (s *Session) Best(sigmas, shifts []float64) (Match, error) {
	ids := s.lib.IDs()
	if len(ids) == 0 {
		return Match{}, ErrEmptyLibrary
	}

	var (
		bestKey Key
		bestRes = math.Inf(1)
		found   bool
	)
	for _, id := range ids {
		base := TemplateKey(id)
		r, err := s.SearchBroadening(sigmas, shifts, base)
		if err != nil {
			return Match{}, fmt.Errorf("match: template %q: %w", id, err)
		}
		if !found || r.Residual < bestRes {
			bestKey, bestRes, found = base, r.Residual, true
		}
	}
	s.tree.point(Key{}, bestKey, bestRes)

	terminal, err := s.tree.follow()
	if err != nil {
		return Match{}, err
	}
	if terminal.Level() != LevelShift {
		return Match{}, fmt.Errorf("%w: chain ends at %v", ErrNoMatch, terminal)
	}

	var (
		rec FitRecord
		est []float64
	)
	if s.cfg.Estimate {
		rec, est, err = s.estimate(terminal)
		if err != nil {
			return Match{}, err
		}
	} else {
		var ok bool
		rec, ok = s.cache.Fit(terminal)
		if !ok {
			return Match{}, fmt.Errorf("%w: no fit cached for %v", ErrNoMatch, terminal)
		}
	}

	return Match{
		Template: rec.Template(),
		Sigma:    rec.Sigma,
		DeltaT:   rec.DeltaT,
		A:        rec.A,
		B:        rec.B,
		Residual: rec.Residual,
		Singular: rec.Singular,
		Used:     rec.Used,
		Estimate: est,
	}, nil
}

func checkSigmas(sigmas []float64) error {
	if len(sigmas) == 0 {
		return fmt.Errorf("%w: none given", ErrBadSigmas)
	}
	for i, sigma := range sigmas {
		if !core.IsFinite(sigma) || sigma < 0 {
			return fmt.Errorf("%w: sigmas[%d]=%v", ErrBadSigmas, i, sigma)
		}
		if i > 0 && !(sigma > sigmas[i-1]) {
			return fmt.Errorf("%w: sigmas[%d]=%v after %v", ErrBadSigmas, i, sigma, sigmas[i-1])
		}
	}
	return nil
}

func uniqueSorted(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	n := 0
	for i, x := range out {
		if i == 0 || x != out[n-1] {
			out[n] = x
			n++
		}
	}
	return out[:n]
}

// minGap returns the smallest distance between consecutive shifts of a
// shift-sorted probe list.
func minGap(ps []probe) float64 {
	gap := math.Inf(1)
	for i := 1; i < len(ps); i++ {
		if d := ps[i].shift - ps[i-1].shift; d < gap {
			gap = d
		}
	}
	return gap
}

// rankProbes copies ps into dst ordered by residual. Equal residuals keep
// shift order.
func rankProbes(dst, ps []probe) []probe {
	dst = append(dst[:0], ps...)
	sort.SliceStable(dst, func(i, j int) bool {
		return dst[i].residual < dst[j].residual
	})
	return dst
}
