// Package lsq fits an observed profile as an affine function of a candidate
// profile.
//
// For a candidate c and an observation y sampled on the same grid, [Fit]
// finds the amplitude A and offset B minimizing ||y - A*c - B||₂ over the
// samples where both vectors are finite, by solving the 2x2 normal equations
// with a Cholesky factorization. A singular or hopelessly ill-conditioned
// system (for example a constant or all-zero candidate) is not an error: the
// fit falls back to A = B = 0 and reports the norm of y as its residual, so a
// search simply moves away from that candidate.
package lsq
