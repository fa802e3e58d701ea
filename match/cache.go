package match

import (
	"sync"

	"github.com/cwbudde/algo-pulsefit/dsp/lsq"
)

// FitRecord is the outcome of fitting one template instantiation
// (template, sigma, shift) against an observation.
type FitRecord struct {
	Key      Key
	Residual float64
	A        float64 // amplitude coefficient
	B        float64 // offset coefficient
	DeltaT   float64
	Sigma    float64
	Singular bool
	Used     int // finite samples in the fit
}

// Template returns the template id of the record.
func (r FitRecord) Template() string {
	return r.Key.Template()
}

func (r FitRecord) lsq() lsq.Result {
	return lsq.Result{Residual: r.Residual, A: r.A, B: r.B, Used: r.Used, Singular: r.Singular}
}

// CacheStats counts cache traffic for one session.
type CacheStats struct {
	FitHits          int // Evaluate calls answered from a cached fit
	Fits             int // least-squares fits performed
	Broadenings      int // broadened profiles built by this session
	Resamples        int // shifted candidates built by resampling
	EstimateRebuilds int // estimates rebuilt from cached coefficients
}

// Cache memoizes the per-observation work of a session. Broadened profiles
// are keyed at LevelSigma; shifted candidates and fits at LevelShift. Every
// entry is a pure function of its key and the session's observation.
type Cache struct {
	broadened map[Key][]float64
	shifted   map[Key][]float64
	fits      map[Key]FitRecord
	shared    *ProfileCache
	stats     CacheStats
}

func newCache(shared *ProfileCache) *Cache {
	return &Cache{
		broadened: make(map[Key][]float64),
		shifted:   make(map[Key][]float64),
		fits:      make(map[Key]FitRecord),
		shared:    shared,
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return c.stats
}

// Fit returns the cached fit for a shift-level key.
func (c *Cache) Fit(k Key) (FitRecord, bool) {
	k.mustBe(LevelShift, "Cache.Fit")
	rec, ok := c.fits[k]
	return rec, ok
}

// Len returns the number of cached fits.
func (c *Cache) Len() int {
	return len(c.fits)
}

func (c *Cache) storeFit(rec FitRecord) {
	rec.Key.mustBe(LevelShift, "Cache.storeFit")
	c.fits[rec.Key] = rec
}

// profile returns the broadened profile for a sigma-level key, building it
// with build on first use.
func (c *Cache) profile(k Key, build func() ([]float64, error)) ([]float64, error) {
	k.mustBe(LevelSigma, "Cache.profile")
	if p, ok := c.broadened[k]; ok {
		return p, nil
	}

	var (
		p   []float64
		err error
	)
	if c.shared != nil {
		var built bool
		p, built, err = c.shared.get(k, build)
		if built {
			c.stats.Broadenings++
		}
	} else {
		p, err = build()
		c.stats.Broadenings++
	}
	if err != nil {
		return nil, err
	}
	c.broadened[k] = p
	return p, nil
}

// candidate returns the shifted candidate for a shift-level key, building it
// with build on first use.
func (c *Cache) candidate(k Key, build func() ([]float64, error)) ([]float64, error) {
	k.mustBe(LevelShift, "Cache.candidate")
	if p, ok := c.shifted[k]; ok {
		return p, nil
	}
	p, err := build()
	if err != nil {
		return nil, err
	}
	c.shifted[k] = p
	return p, nil
}

// ProfileCache holds broadened, unshifted template profiles. They do not
// depend on the observation, so one ProfileCache may back the sessions of
// many observations. It is safe for concurrent use.
type ProfileCache struct {
	mu       sync.Mutex
	profiles map[Key][]float64
}

// NewProfileCache returns an empty shared profile cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{profiles: make(map[Key][]float64)}
}

// Len returns the number of cached profiles.
func (pc *ProfileCache) Len() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return len(pc.profiles)
}

// get returns the profile for k, building it under the lock when absent.
// Builds run under the lock.
func (pc *ProfileCache) get(k Key, build func() ([]float64, error)) ([]float64, bool, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if p, ok := pc.profiles[k]; ok {
		return p, false, nil
	}
	p, err := build()
	if err != nil {
		return nil, true, err
	}
	pc.profiles[k] = p
	return p, true, nil
}
