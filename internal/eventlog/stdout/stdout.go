package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/seizurewatch/internal/model"
)

// Recorder echoes each log entry as one JSON line, for tailing detections
// from a terminal or a log shipper.
type Recorder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// New creates a Recorder writing to os.Stdout.
func New() *Recorder {
	return NewWriter(os.Stdout)
}

// NewWriter creates a Recorder writing to w.
func NewWriter(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

func (r *Recorder) Record(_ context.Context, entry model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(entry); err != nil {
		return fmt.Errorf("stdout recorder: %w", err)
	}
	return nil
}

func (r *Recorder) Close() error {
	return nil
}
