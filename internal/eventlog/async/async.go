package async

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/seizurewatch/internal/eventlog"
	"github.com/crimson-sun/seizurewatch/internal/model"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner recorder fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Record return immediately, dropping the entry, when
// the buffer is full instead of blocking the request.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// WithOnDrop sets a callback receiving each seizure entry dropped because
// the buffer was full. Only used with WithDropOnFull.
func WithOnDrop(f func(model.LogEntry)) Option {
	return func(a *Async) { a.dropFunc = f }
}

// WithDrainTimeout bounds how long Close waits for queued entries.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Async moves delivery to a slow secondary recorder (a webhook, say) off
// the request path. Entries are queued on a buffered channel and a single
// goroutine forwards them in order. Inner errors go to errFunc.
type Async struct {
	inner        eventlog.Recorder
	ch           chan model.LogEntry
	done         chan struct{}
	errFunc      func(error)
	bufSize      int
	dropOnFull   bool
	dropFunc     func(model.LogEntry)
	dropped      atomic.Int64
	drainTimeout time.Duration
	closeOnce    sync.Once
}

// New wraps inner and starts the drain goroutine.
func New(inner eventlog.Recorder, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async recorder error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.LogEntry, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Record queues entry. It blocks while the buffer is full unless
// WithDropOnFull was given, in which case the entry is dropped.
func (a *Async) Record(ctx context.Context, entry model.LogEntry) error {
	if a.dropOnFull {
		select {
		case a.ch <- entry:
		default:
			a.dropped.Add(1)
			slog.Warn("async recorder buffer full, seizure entry not forwarded",
				"timestamp", entry.Timestamp,
				"details", entry.Details,
				"dropped_total", a.dropped.Load(),
			)
			if a.dropFunc != nil {
				a.dropFunc(entry)
			}
		}
		return nil
	}
	select {
	case a.ch <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns how many entries were discarded on a full buffer.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting entries, waits for the queue to drain (bounded by
// the drain timeout) and closes the inner recorder.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(a.drainTimeout):
			slog.Warn("async recorder drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for entry := range a.ch {
		if err := a.inner.Record(context.Background(), entry); err != nil {
			a.errFunc(err)
		}
	}
}
