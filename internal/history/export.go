package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Header is the first line of a text export.
const Header = "# Sed Studio command history"

// TimeLayout formats timestamps in exports.
const TimeLayout = "2006-01-02 15:04:05"

// Text renders the log as a text listing, newest first:
//
//	# Sed Studio command history
//	# Generated: 2025-12-23 10:00:00
//
//	[2025-12-23 09:59:12] sed -E -e 's|a|b|g' target_file.txt
func (l *Log) Text(generated time.Time) ([]byte, error) {
	entries := l.Newest()
	if len(entries) == 0 {
		return nil, ErrEmptyHistory
	}

	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "# Generated: %s\n\n", generated.Format(TimeLayout))
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s] %s\n", e.Timestamp.Format(TimeLayout), e.Command)
	}
	return []byte(b.String()), nil
}

// JSON renders the log as a JSON document, newest first:
//
//	{"generated":"...","count":2,"entries":[{"id":"...","timestamp":"...","command":"..."}]}
//
// Timestamps are RFC 3339.
func (l *Log) JSON(generated time.Time) ([]byte, error) {
	entries := l.Newest()
	if len(entries) == 0 {
		return nil, ErrEmptyHistory
	}

	doc := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("generated", generated.Format(time.RFC3339))
	set("count", len(entries))
	set("entries", []any{})
	for _, e := range entries {
		set("entries.-1", map[string]any{
			"id":        e.ID,
			"timestamp": e.Timestamp.Format(time.RFC3339Nano),
			"command":   e.Command,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return doc, nil
}

// ParseJSON reads a document produced by JSON and returns its entries
// oldest first, ready for Import.
func ParseJSON(data []byte) ([]Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("history: invalid JSON")
	}
	list := gjson.GetBytes(data, "entries")
	if !list.IsArray() {
		return nil, fmt.Errorf("history: missing entries array")
	}

	var entries []Entry
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		ts, err := time.Parse(time.RFC3339Nano, item.Get("timestamp").String())
		if err != nil {
			parseErr = fmt.Errorf("history: entry %d: %w", len(entries), err)
			return false
		}
		entries = append(entries, Entry{
			ID:        item.Get("id").String(),
			Timestamp: ts,
			Command:   item.Get("command").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	// Exports are newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
