package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/crimson-sun/seizurewatch/internal/engine/classifier"
	"github.com/crimson-sun/seizurewatch/internal/engine/filter"
	"github.com/crimson-sun/seizurewatch/internal/engine/normalize"
	"github.com/crimson-sun/seizurewatch/internal/engine/predictor"
	"github.com/crimson-sun/seizurewatch/internal/model"
)

// Engine orchestrates the filter → normalize → predict → classify path.
// It is built once at startup and is read-only afterwards, so a single
// Engine may serve concurrent requests.
type Engine struct {
	filter     *filter.Coefficients
	predictor  predictor.Predictor
	classifier *classifier.Classifier
	sampleRate float64
}

// New designs the bandpass filter for sampleRate and wires the components.
func New(p predictor.Predictor, cls *classifier.Classifier, sampleRate float64) (*Engine, error) {
	coef, err := filter.Design(filter.DefaultOrder, filter.DefaultLowHz, filter.DefaultHighHz, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &Engine{
		filter:     coef,
		predictor:  p,
		classifier: cls,
		sampleRate: sampleRate,
	}, nil
}

// SampleRate returns the rate the filter was designed for.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// Preprocess bandpass-filters and z-scores a raw window.
func (e *Engine) Preprocess(samples []float64) ([]float64, error) {
	normalized, err := normalize.ZScore(e.filter.Apply(samples))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return normalized, nil
}

// Process scores a raw window of samples and classifies the result.
func (e *Engine) Process(ctx context.Context, samples []float64) (model.Detection, error) {
	window, err := e.Preprocess(samples)
	if err != nil {
		return model.Detection{}, err
	}
	p, err := e.predictor.Predict(ctx, window)
	if err != nil {
		return model.Detection{}, fmt.Errorf("engine: predict: %w", err)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return model.Detection{}, fmt.Errorf("engine: predict: non-finite probability %v", p)
	}
	return e.classifier.Classify(p), nil
}

// Close releases the predictor.
func (e *Engine) Close() error {
	return e.predictor.Close()
}
