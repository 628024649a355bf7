package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyHistory is returned when exporting a log with no entries.
var ErrEmptyHistory = errors.New("history is empty")

// DefaultMaxEntries bounds the log when no limit is configured.
const DefaultMaxEntries = 500

// Entry is one recorded command.
type Entry struct {
	ID        string
	Timestamp time.Time
	Command   string
}

// Log is a dedup-adjacent record of generated commands.
type Log struct {
	mu sync.Mutex

	entries    []Entry
	maxEntries int

	now func() time.Time
}

// New creates a log that keeps at most maxEntries, dropping the oldest.
func New(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Append records cmd unless it is empty or equal to the latest entry.
// Returns true if an entry was added.
func (l *Log) Append(cmd string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.appendLocked(Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Command:   cmd,
	})
}

// appendLocked adds an entry without acquiring the lock.
func (l *Log) appendLocked(e Entry) bool {
	if e.Command == "" {
		return false
	}
	if n := len(l.entries); n > 0 && l.entries[n-1].Command == e.Command {
		return false
	}

	l.entries = append(l.entries, e)

	// Enforce max entries
	if len(l.entries) > l.maxEntries {
		excess := len(l.entries) - l.maxEntries
		l.entries = l.entries[excess:]
	}
	return true
}

// Import appends previously exported entries, oldest first, applying the
// same adjacent deduplication. Entries without an ID get a fresh one.
func (l *Log) Import(entries []Entry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if l.appendLocked(e) {
			added++
		}
	}
	return added
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Newest returns a copy of the entries, newest first.
func (l *Log) Newest() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Last returns the most recent entry.
func (l *Log) Last() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
