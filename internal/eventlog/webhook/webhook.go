package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/crimson-sun/seizurewatch/internal/model"
)

const (
	defaultBatchSize     = 10
	defaultFlushInterval = 2 * time.Second
	defaultTimeout       = 10 * time.Second
	maxRetries           = 3
)

// Option configures a webhook Recorder.
type Option func(*Recorder)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(r *Recorder) { r.headers = h }
}

// WithBatchSize sets the number of entries accumulated before a flush. Default: 10.
func WithBatchSize(n int) Option {
	return func(r *Recorder) { r.batchSize = n }
}

// WithFlushInterval sets the maximum time an entry waits before being sent. Default: 2s.
func WithFlushInterval(d time.Duration) Option {
	return func(r *Recorder) { r.flushInterval = d }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) { r.client.Timeout = d }
}

// WithOnError sets a callback invoked when a timer-triggered flush fails.
func WithOnError(f func(error)) Option {
	return func(r *Recorder) { r.errFunc = f }
}

// withBackoff overrides the retry backoff unit (tests only).
func withBackoff(d time.Duration) Option {
	return func(r *Recorder) { r.backoff = d }
}

// Recorder POSTs seizure log entries to an HTTP endpoint as a JSON array.
// Entries are batched until batchSize is reached or flushInterval elapses.
// 5xx responses are retried with exponential backoff.
type Recorder struct {
	client        *http.Client
	url           string
	headers       map[string]string
	batchSize     int
	flushInterval time.Duration
	backoff       time.Duration
	errFunc       func(error)

	mu      sync.Mutex
	pending []model.LogEntry
	timer   *time.Timer
}

// New creates a webhook recorder targeting url.
func New(url string, opts ...Option) *Recorder {
	r := &Recorder{
		client:        &http.Client{Timeout: defaultTimeout},
		url:           url,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		backoff:       time.Second,
		errFunc:       func(err error) { slog.Warn("webhook flush error", "error", err) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record adds entry to the pending batch, flushing when the batch is full.
func (r *Recorder) Record(ctx context.Context, entry model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, entry)
	if len(r.pending) >= r.batchSize {
		return r.flushLocked(ctx)
	}
	if len(r.pending) == 1 {
		r.timer = time.AfterFunc(r.flushInterval, func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if err := r.flushLocked(context.Background()); err != nil {
				r.errFunc(err)
			}
		})
	}
	return nil
}

// Close sends any pending entries and stops the timer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked(context.Background())
}

// flushLocked posts the pending batch. Caller must hold r.mu.
func (r *Recorder) flushLocked(ctx context.Context) error {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if len(r.pending) == 0 {
		return nil
	}
	batch := r.pending
	r.pending = nil

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}
	return r.postWithRetry(ctx, body)
}

func (r *Recorder) postWithRetry(ctx context.Context, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(r.backoff << (attempt - 1))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range r.headers {
			req.Header.Set(k, v)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("webhook: HTTP %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
