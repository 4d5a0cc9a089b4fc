package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crimson-sun/seizurewatch/internal/model"
)

type mockRecorder struct {
	mu      sync.Mutex
	entries []model.LogEntry
	closed  bool
	err     error
	delay   time.Duration
}

func (m *mockRecorder) Record(_ context.Context, e model.LogEntry) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return m.err
}

func (m *mockRecorder) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func testEntry(details string) model.LogEntry {
	return model.NewLogEntry(time.Now(), details)
}

func TestEntriesFlowThroughInOrder(t *testing.T) {
	inner := &mockRecorder{}
	a := New(inner, WithBufferSize(16))

	for _, d := range []string{"a", "b", "c"} {
		if err := a.Record(context.Background(), testEntry(d)); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if inner.count() != 3 {
		t.Fatalf("got %d entries, want 3", inner.count())
	}
	for i, want := range []string{"a", "b", "c"} {
		if inner.entries[i].Details != want {
			t.Errorf("entry %d = %q, want %q", i, inner.entries[i].Details, want)
		}
	}
	if !inner.closed {
		t.Error("inner recorder not closed")
	}
}

func TestRecordHonoursContextWhenFull(t *testing.T) {
	inner := &mockRecorder{delay: 200 * time.Millisecond}
	a := New(inner, WithBufferSize(1))
	defer a.Close()

	a.Record(context.Background(), testEntry("first"))
	a.Record(context.Background(), testEntry("second"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Record(ctx, testEntry("third")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestDropOnFull(t *testing.T) {
	inner := &mockRecorder{delay: 100 * time.Millisecond}
	a := New(inner, WithBufferSize(1), WithDropOnFull())

	for i := 0; i < 20; i++ {
		a.Record(context.Background(), testEntry("burst"))
	}
	a.Close()

	if inner.count() == 20 {
		t.Error("expected some entries to be dropped")
	}
	if inner.count() == 0 {
		t.Error("expected at least one entry delivered")
	}
}

func TestDropCallbackReceivesEntries(t *testing.T) {
	inner := &mockRecorder{delay: 100 * time.Millisecond}
	var mu sync.Mutex
	var lost []model.LogEntry
	a := New(inner, WithBufferSize(1), WithDropOnFull(), WithOnDrop(func(e model.LogEntry) {
		mu.Lock()
		lost = append(lost, e)
		mu.Unlock()
	}))

	for i := 0; i < 20; i++ {
		a.Record(context.Background(), testEntry("Seizure detected"))
	}
	a.Close()

	mu.Lock()
	defer mu.Unlock()
	if int64(len(lost)) != a.Dropped() {
		t.Errorf("callback saw %d entries, Dropped() = %d", len(lost), a.Dropped())
	}
	if got := int64(inner.count()) + a.Dropped(); got != 20 {
		t.Errorf("delivered + dropped = %d, want 20", got)
	}
	for _, e := range lost {
		if e.Details != "Seizure detected" {
			t.Errorf("dropped entry details = %q", e.Details)
		}
	}
}

func TestErrorCallbackInvoked(t *testing.T) {
	inner := &mockRecorder{err: errors.New("webhook down")}
	var calls atomic.Int64
	a := New(inner, WithOnError(func(error) { calls.Add(1) }))

	for i := 0; i < 4; i++ {
		a.Record(context.Background(), testEntry("failing"))
	}
	a.Close()

	if calls.Load() != 4 {
		t.Errorf("error callback called %d times, want 4", calls.Load())
	}
}

func TestCloseIdempotent(t *testing.T) {
	a := New(&mockRecorder{})
	if err := a.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	select {
	case <-a.done:
	case <-time.After(time.Second):
		t.Fatal("drain goroutine did not exit")
	}
}

func TestDrainTimeout(t *testing.T) {
	inner := &mockRecorder{delay: 300 * time.Millisecond}
	a := New(inner, WithDrainTimeout(50*time.Millisecond))
	a.Record(context.Background(), testEntry("slow"))
	a.Record(context.Background(), testEntry("slower"))

	start := time.Now()
	a.Close()
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("Close took %v, want bounded by drain timeout", elapsed)
	}
}
