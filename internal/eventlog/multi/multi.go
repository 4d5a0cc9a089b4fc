package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/seizurewatch/internal/eventlog"
	"github.com/crimson-sun/seizurewatch/internal/model"
)

// Multi fans out log entries to several recorders in order.
// A failing recorder does not stop delivery to the ones after it.
type Multi struct {
	recorders []eventlog.Recorder
}

// New creates a Multi over the given recorders. Nil recorders are skipped.
func New(recorders ...eventlog.Recorder) *Multi {
	m := &Multi{}
	for _, r := range recorders {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}
	return m
}

// Len returns the number of wrapped recorders.
func (m *Multi) Len() int {
	return len(m.recorders)
}

// Record delivers entry to every recorder and joins their errors.
func (m *Multi) Record(ctx context.Context, entry model.LogEntry) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every recorder and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
