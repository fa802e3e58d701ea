// Package match finds, for each observed waveform, the library template, time
// shift and Gaussian broadening that best explain it.
//
// For one observation the search is nested three levels deep:
//
//   - every template in the [Library] is tried in sorted id order;
//   - for each template, broadening widths are scanned in ascending order and
//     the scan stops at the first width whose best residual is worse than the
//     previous one;
//   - for each width, the shift is refined from the caller's initial
//     candidates by repeatedly probing 0.7*best + 0.3*second-best until the
//     probed shifts are closer than a time tolerance.
//
// Every candidate is scored by an affine least-squares fit (amplitude and
// offset) against the observation. Results are memoized under a hierarchical
// [Key] (template; +sigma; +shift), and the winners at each level are linked
// in an explicit search tree whose best-pointer chain leads from the
// observation root to the winning (template, sigma, shift) triple.
//
// The search assumes a unimodal residual in each parameter and returns the
// first local minimum it reaches; it does not look for a global optimum.
//
// A [Session] owns the caches for one observation and must not be shared.
// [Matcher.FitCatalog] creates one session per observation and can fit
// observations concurrently; the library itself is only read.
package match
