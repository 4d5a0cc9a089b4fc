package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/seizurewatch/internal/engine"
	"github.com/crimson-sun/seizurewatch/internal/eventlog"
	"github.com/crimson-sun/seizurewatch/internal/model"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSinks adds a secondary recorder that receives every positive
// detection after the primary store. Sink errors are logged, not returned.
func WithSinks(r eventlog.Recorder) Option {
	return func(p *Pipeline) { p.sinks = r }
}

// WithDetails overrides the detail text written for each detection.
func WithDetails(details string) Option {
	return func(p *Pipeline) { p.details = details }
}

// WithClock overrides the time source used to stamp log entries.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithOnDetection registers a callback run after a positive detection has
// been stored.
func WithOnDetection(f func(model.Detection)) Option {
	return func(p *Pipeline) { p.onDetection = f }
}

// Pipeline connects the inference engine to the seizure log.
type Pipeline struct {
	engine      *engine.Engine
	store       eventlog.Store
	sinks       eventlog.Recorder
	details     string
	now         func() time.Time
	onDetection func(model.Detection)
}

// New creates a Pipeline that records positive detections to store.
func New(eng *engine.Engine, store eventlog.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:  eng,
		store:   store,
		details: model.DefaultDetails,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Upload scores a window of raw samples. A positive detection is written
// to the store before returning; if that write fails the detection is
// returned together with the error.
func (p *Pipeline) Upload(ctx context.Context, samples []float64) (model.Detection, error) {
	det, err := p.engine.Process(ctx, samples)
	if err != nil {
		return model.Detection{}, err
	}
	if !det.IsSeizure {
		return det, nil
	}

	entry := model.NewLogEntry(p.now(), p.details)
	if err := p.store.Record(ctx, entry); err != nil {
		return det, fmt.Errorf("pipeline record: %w", err)
	}
	slog.Info("seizure detected", "probability", det.Probability, "timestamp", entry.Timestamp)

	if p.sinks != nil {
		if err := p.sinks.Record(ctx, entry); err != nil {
			slog.Warn("secondary sink failed", "error", err)
		}
	}
	if p.onDetection != nil {
		p.onDetection(det)
	}
	return det, nil
}

// Log returns the full seizure log.
func (p *Pipeline) Log(ctx context.Context) ([]json.RawMessage, error) {
	entries, err := p.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline log: %w", err)
	}
	return entries, nil
}

// Close shuts down the sinks, the store and the engine.
func (p *Pipeline) Close() error {
	var errs []error
	if p.sinks != nil {
		errs = append(errs, p.sinks.Close())
	}
	errs = append(errs, p.store.Close(), p.engine.Close())
	return errors.Join(errs...)
}
