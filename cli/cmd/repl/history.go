package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// HistoryFile is the name of the history file within the cache directory.
const HistoryFile = "history.utf8"

// maxHistory bounds the number of entries kept in memory and on disk.
const maxHistory = 1000

// HistoryEntry is one submitted line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// encode renders e as a history file line: a mode tag, a colon, and the text.
func (e HistoryEntry) encode() string {
	tag := "E"
	if e.Mode == modeCtrl {
		tag = "C"
	}

	return tag + ":" + e.Line + "\n"
}

// decodeEntry parses a history file line. Lines without a mode tag are
// treated as eval input.
func decodeEntry(line string) HistoryEntry {
	tag, text, ok := strings.Cut(line, ":")

	switch {
	case ok && tag == "E":
		return HistoryEntry{Line: text, Mode: modeEval}
	case ok && tag == "C":
		return HistoryEntry{Line: text, Mode: modeCtrl}
	default:
		return HistoryEntry{Line: line, Mode: modeEval}
	}
}

// History is the list of submitted lines, persisted to a file. A History
// with an empty path is kept in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those in the history file. A missing file
// is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, decodeEntry(line))
		}
	}

	if n := len(h.entries); n > maxHistory {
		h.entries = slices.Delete(h.entries, 0, n-maxHistory)
	}

	return scanner.Err()
}

// Add appends line in the given mode. An earlier identical entry is moved to
// the end rather than duplicated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if n := len(h.entries); n > maxHistory {
		h.entries = slices.Delete(h.entries, 0, n-maxHistory)
		i = 0
	}

	if i >= 0 {
		return h.rewrite()
	}

	return h.append(entry)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// append writes one entry to the end of the file. Must be called with h.mu
// held.
func (h *History) append(entry HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.encode())

	return err
}

// rewrite replaces the file with the current entries. Must be called with
// h.mu held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e.encode())
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
