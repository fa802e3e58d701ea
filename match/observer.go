package match

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Observer follows a shift search, typically to draw intermediate fits.
// Implementations must not retain or modify the candidate slice.
type Observer interface {
	// SearchStarted is called before the shifts of a sigma-level key are searched.
	SearchStarted(key Key, obs waveform.Waveform)
	// Evaluated is called after each new fit with the candidate profile on the
	// observation grid.
	Evaluated(key Key, residual float64, candidate []float64)
	// SearchFinished reports the winning shift-level key of a shift search.
	SearchFinished(key, best Key, residual float64)
}

// NopObserver ignores all events.
type NopObserver struct{}

// SearchStarted does nothing.
func (NopObserver) SearchStarted(Key, waveform.Waveform) {}

// Evaluated does nothing.
func (NopObserver) Evaluated(Key, float64, []float64) {}

// SearchFinished does nothing.
func (NopObserver) SearchFinished(Key, Key, float64) {}

// LogObserver writes search events to a zap logger at debug level. A nil
// Logger discards them.
type LogObserver struct {
	Logger *zap.Logger
}

func (o LogObserver) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// SearchStarted logs the sigma-level key and the observation length.
func (o LogObserver) SearchStarted(key Key, obs waveform.Waveform) {
	o.logger().Debug("shift search started",
		zap.Stringer("key", key),
		zap.Int("samples", obs.Len()))
}

// Evaluated logs the key and residual of a new fit.
func (o LogObserver) Evaluated(key Key, residual float64, _ []float64) {
	o.logger().Debug("candidate evaluated",
		zap.Stringer("key", key),
		zap.Float64("residual", residual))
}

// SearchFinished logs the winning shift of a search.
func (o LogObserver) SearchFinished(key, best Key, residual float64) {
	o.logger().Debug("shift search finished",
		zap.Stringer("key", key),
		zap.Stringer("best", best),
		zap.Float64("residual", residual))
}
