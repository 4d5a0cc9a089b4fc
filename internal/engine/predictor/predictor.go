package predictor

import "context"

// Predictor scores one normalized EEG window. Implementations receive the
// window as a single-channel sequence and return the probability produced
// for the first (only) batch element.
type Predictor interface {
	Predict(ctx context.Context, window []float64) (float64, error)
	Close() error
}

// Func adapts a plain scoring function to the Predictor interface.
type Func func(window []float64) (float64, error)

// Predict calls f.
func (f Func) Predict(_ context.Context, window []float64) (float64, error) {
	return f(window)
}

// Close is a no-op.
func (f Func) Close() error { return nil }
