// Package pulse characterizes a single pulse in a sampled waveform.
//
// All statistics treat the amplitude profile as a weight distribution over the
// sample times: [Centroid] is the amplitude-weighted mean time, [Sigma] the
// second-moment spread, and [RobustSpread] half the distance between the 16th
// and 84th weighted percentiles, which tracks a Gaussian standard deviation
// while ignoring long tails.
//
// [IterativeCentroid] repeatedly clips the pulse to N robust spreads around its
// centroid, which is the usual way to locate a return pulse sitting on a noisy
// background.
//
// Every function accepts an optional boolean mask selecting a subset of
// samples; a nil mask selects all of them. A subset whose amplitudes sum to
// zero has no defined centroid and yields [ErrZeroWeight].
package pulse
