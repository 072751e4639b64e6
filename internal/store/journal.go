package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maruel/ksid"

	"github.com/maruel/palettedb/internal/palette"
)

// Journal actions.
const (
	ActionApply = "apply"
	ActionUndo  = "undo"
	ActionRedo  = "redo"
)

// JournalEntry records one edit made to the document.
type JournalEntry struct {
	ID      ksid.ID             `json:"id"`
	Time    time.Time           `json:"time"`
	Action  string              `json:"action"`
	Ops     []palette.Operation `json:"ops,omitempty"`
	Batches int                 `json:"batches,omitempty"`
	Summary string              `json:"summary"`
}

// Journal is an append-only log of edits in JSONL format, one entry per
// line. Unlike the history it is never trimmed nor rewritten by undo.
type Journal struct {
	path    string
	mu      sync.Mutex
	entries []JournalEntry
}

// OpenJournal loads the journal at path. A missing file is an empty journal.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	j := &Journal{path: path}
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the configuration
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, storageError("failed to open journal", err)
	}
	defer func() { _ = f.Close() }()
	scanner := bufio.NewScanner(f)
	// Entries carry whole operation lists.
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for line := 1; scanner.Scan(); line++ {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var e JournalEntry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, invalidDocument(fmt.Sprintf("%s:%d", path, line), err)
		}
		j.entries = append(j.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, storageError("failed to read journal", err)
	}
	return j, nil
}

// Append stamps e with an ID and the current time when they are unset and
// persists it.
func (j *Journal) Append(e JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = ksid.NewID()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G302: the journal is not secret
	if err != nil {
		return storageError("failed to open journal for append", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return storageError("failed to write journal entry", err)
	}
	j.entries = append(j.entries, e)
	return nil
}

// Tail returns a copy of the last n entries, oldest first. n <= 0 returns
// every entry.
func (j *Journal) Tail(n int) []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	start := 0
	if n > 0 {
		start = max(len(j.entries)-n, 0)
	}
	return append([]JournalEntry(nil), j.entries[start:]...)
}

// Len returns the number of entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
