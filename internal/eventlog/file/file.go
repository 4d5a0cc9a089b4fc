package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/crimson-sun/seizurewatch/internal/eventlog"
	"github.com/crimson-sun/seizurewatch/internal/model"
)

const indent = "    "

var errNotArray = errors.New("top-level value is not an array")

// Store keeps the seizure log as a single pretty-printed JSON array.
// Every Record reads the whole file, appends one entry and rewrites it in
// place. Calls within one process are serialized; separate processes
// sharing the file are not coordinated.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a Store for the JSON array at path. The file is not touched
// until Ensure, Record or ReadAll is called.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Ensure creates the log file holding an empty array if it does not exist.
// It reports whether the file was created.
func (s *Store) Ensure() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("file log: create %s: %w", s.path, err)
	}
	if _, err := f.WriteString("[]"); err != nil {
		f.Close()
		return false, fmt.Errorf("file log: init %s: %w", s.path, err)
	}
	return true, f.Close()
}

// Record appends entry to the log. The file must already exist. Content
// that does not parse as a JSON array is discarded and replaced by an array
// holding only the new entry.
func (s *Store) Record(_ context.Context, entry model.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		return s.openError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("file log: read %s: %w", s.path, err)
	}
	entries, err := decode(data)
	if err != nil {
		slog.Warn("file log: unreadable content discarded", "path", s.path, "error", err)
		entries = nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("file log: marshal: %w", err)
	}
	entries = append(entries, raw)

	out, err := encode(entries)
	if err != nil {
		return fmt.Errorf("file log: marshal: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("file log: seek %s: %w", s.path, err)
	}
	if _, err := f.Write(out); err != nil {
		return fmt.Errorf("file log: write %s: %w", s.path, err)
	}
	if err := f.Truncate(int64(len(out))); err != nil {
		return fmt.Errorf("file log: truncate %s: %w", s.path, err)
	}
	return f.Close()
}

// ReadAll returns every entry in the log. Unlike Record, a missing or
// unparsable file is an error.
func (s *Store) ReadAll(_ context.Context) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, s.openError(err)
	}
	entries, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("file log: parse %s: %w", s.path, err)
	}
	// "null" decodes without error but is not an array.
	if entries == nil {
		return nil, fmt.Errorf("file log: parse %s: %w", s.path, errNotArray)
	}
	return entries, nil
}

// Close is a no-op; the file is only held open during a call.
func (s *Store) Close() error {
	return nil
}

func (s *Store) openError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file log: open %s: %w", s.path, eventlog.ErrNotFound)
	}
	return fmt.Errorf("file log: open %s: %w", s.path, err)
}

func decode(data []byte) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func encode(entries []json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
