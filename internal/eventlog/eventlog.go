package eventlog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/crimson-sun/seizurewatch/internal/model"
)

// ErrNotFound is returned when the backing log does not exist.
var ErrNotFound = errors.New("eventlog: log not found")

// Recorder receives seizure log entries.
type Recorder interface {
	Record(ctx context.Context, entry model.LogEntry) error
	Close() error
}

// Store is a Recorder that can also return everything recorded so far.
// Entries are returned as raw JSON so records written by other tools
// survive a read unchanged.
type Store interface {
	Recorder
	ReadAll(ctx context.Context) ([]json.RawMessage, error)
}
