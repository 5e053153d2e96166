package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// DeadLetterSchemaVersion versions the JSONL layout of DeadLetterEntry
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one event that could not be delivered
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends undeliverable events to a JSONL file
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewDeadLetterWriter opens path for appending, creating it if needed
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter file: %w", err)
	}
	return &DeadLetterWriter{file: f, now: time.Now}, nil
}

// Write appends evt as one line. The line is encoded before the lock is taken so a
// bad payload never leaves a partial line behind.
func (w *DeadLetterWriter) Write(evt Event, attempts int, lastErr error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     w.now().UTC(),
		Event:         evt,
		Attempts:      attempts,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode dead-letter entry for %s: %w", evt.Type, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("failed to append dead-letter entry: %w", err)
	}
	return nil
}

// Close closes the dead-letter file
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// ReadDeadLetters parses a dead-letter stream. Lines from another schema version are
// reported as an error naming the line.
func ReadDeadLetters(r io.Reader) ([]DeadLetterEntry, error) {
	var entries []DeadLetterEntry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), DeadLetterMaxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e DeadLetterEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("dead-letter line %d: %w", line, err)
		}
		if e.SchemaVersion != DeadLetterSchemaVersion {
			return entries, fmt.Errorf("dead-letter line %d: unsupported schema version %q", line, e.SchemaVersion)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("failed to read dead letters: %w", err)
	}
	return entries, nil
}

// DeadLetterSummary aggregates dead-lettered events per type
type DeadLetterSummary struct {
	Type      Type
	Count     int
	First     time.Time
	Last      time.Time
	LastError string
}

// SummarizeDeadLetters groups entries by event type, most frequent first
func SummarizeDeadLetters(entries []DeadLetterEntry) []DeadLetterSummary {
	byType := make(map[Type]*DeadLetterSummary)
	for _, e := range entries {
		s, ok := byType[e.Event.Type]
		if !ok {
			s = &DeadLetterSummary{Type: e.Event.Type, First: e.Timestamp}
			byType[e.Event.Type] = s
		}
		s.Count++
		if e.Timestamp.Before(s.First) {
			s.First = e.Timestamp
		}
		if !e.Timestamp.Before(s.Last) {
			s.Last = e.Timestamp
			s.LastError = e.LastError
		}
	}

	out := make([]DeadLetterSummary, 0, len(byType))
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
