package seizurewatch

import "github.com/crimson-sun/seizurewatch/internal/engine/filter"

type options struct {
	modelPath  string
	libPath    string
	sampleRate float64
	scorer     func(window []float64) (float64, error)
}

// Option configures a Detector.
type Option func(*options)

// WithModelPath sets the ONNX model file.
// Default: models/seizure_prediction_model.onnx.
func WithModelPath(path string) Option {
	return func(o *options) {
		o.modelPath = path
	}
}

// WithRuntimeLibrary sets the path of the ONNX Runtime shared library.
// Default: libonnxruntime next to the model file.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) {
		o.libPath = path
	}
}

// WithSampleRate sets the sampling rate of incoming windows in Hz.
// Must exceed 100 so the 50 Hz band edge is below Nyquist. Default: 256.
func WithSampleRate(hz float64) Option {
	return func(o *options) {
		o.sampleRate = hz
	}
}

// WithScorer replaces the ONNX model with a custom scoring function. The
// function receives the filtered, normalized window and returns a
// probability. No model file is loaded when a scorer is set.
func WithScorer(f func(window []float64) (float64, error)) Option {
	return func(o *options) {
		o.scorer = f
	}
}

func defaultOptions() options {
	return options{
		modelPath:  "models/seizure_prediction_model.onnx",
		sampleRate: filter.DefaultSampleRate,
	}
}
