// Package waveform defines the sampled (time, amplitude) signal shared by the
// statistics, resampling, broadening and matching packages.
//
// A [Waveform] carries explicit sample times T and amplitudes P. Observed
// waveforms usually arrive on an implicit regular grid described by TSamp and
// TStart; [NewRegular] materializes that grid so every consumer can rely on T.
//
//	obs, err := waveform.NewRegular(samples, 0.5, 100)
//	grid := obs.Grid() // 100, 100.5, 101, ...
package waveform
