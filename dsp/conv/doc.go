// Package conv provides the linear convolution used to broaden template
// profiles.
//
// Two strategies are available:
//
//   - [Direct]: O(N*M) time-domain convolution accumulated with gonum floats
//     kernels, best for short kernels
//   - [OverlapAdd]: FFT-based block convolution using algo-fft, efficient
//     once the kernel grows past a few dozen taps
//
// [Convolve] picks between them by kernel length and [ConvolveMode] trims the
// full result to [ModeFull], [ModeSame] or [ModeValid].
//
//	out, err := conv.ConvolveMode(profile, kernel, conv.ModeSame)
//
// [ModeSame] keeps the output the same length as the first input and centres
// the kernel, so a symmetric odd-length kernel introduces no delay. Samples
// near the edges lose energy to the implicit zero padding.
package conv
