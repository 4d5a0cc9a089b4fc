package seizurewatch

import (
	"context"
	"fmt"

	"github.com/crimson-sun/seizurewatch/internal/engine"
	"github.com/crimson-sun/seizurewatch/internal/engine/classifier"
	"github.com/crimson-sun/seizurewatch/internal/engine/normalize"
	"github.com/crimson-sun/seizurewatch/internal/engine/predictor"
	"github.com/crimson-sun/seizurewatch/internal/model"
)

// ErrDegenerateSignal is returned for windows that are empty or have zero
// variance after filtering.
var ErrDegenerateSignal = normalize.ErrDegenerateSignal

// Detector scores EEG windows. Safe for concurrent use.
type Detector struct {
	engine *engine.Engine
}

// New creates a Detector, loading the model unless WithScorer is given.
func New(opts ...Option) (*Detector, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var p predictor.Predictor
	if o.scorer != nil {
		p = predictor.Func(o.scorer)
	} else {
		onnx, err := predictor.NewONNX(o.modelPath, o.libPath)
		if err != nil {
			return nil, fmt.Errorf("seizurewatch: %w", err)
		}
		p = onnx
	}

	eng, err := engine.New(p, classifier.New(), o.sampleRate)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("seizurewatch: %w", err)
	}
	return &Detector{engine: eng}, nil
}

// Detect scores a window of raw samples.
func (d *Detector) Detect(ctx context.Context, samples []float64) (Detection, error) {
	det, err := d.engine.Process(ctx, samples)
	if err != nil {
		return Detection{}, err
	}
	return detectionFromModel(det), nil
}

// DetectFloat32 scores a window of single-precision samples, as produced by
// a browser Float32Array or a binary capture.
func (d *Detector) DetectFloat32(ctx context.Context, samples []float32) (Detection, error) {
	wide := make([]float64, len(samples))
	for i, v := range samples {
		wide[i] = float64(v)
	}
	return d.Detect(ctx, wide)
}

// Preprocess returns the filtered, normalized window the model would see.
func (d *Detector) Preprocess(samples []float64) ([]float64, error) {
	return d.engine.Preprocess(samples)
}

// Close releases model resources.
func (d *Detector) Close() error {
	return d.engine.Close()
}

func detectionFromModel(det model.Detection) Detection {
	return Detection{Probability: det.Probability, IsSeizure: det.IsSeizure}
}
