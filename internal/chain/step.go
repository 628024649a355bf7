package chain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DeleteSentinel is the replacement value that turns a step into a line
// deletion.
const DeleteSentinel = "DELETE"

// Step is one unit of text transformation.
type Step struct {
	// Pattern is the regular expression to match. Required.
	Pattern string

	// Replacement is the substitution template, or DeleteSentinel.
	Replacement string

	// Global replaces every match on a line instead of only the first.
	Global bool

	// Range is the raw line address ("3", "2,5", "4,$"). Empty means all lines.
	// It is interpolated verbatim when rendering.
	Range string
}

// IsDelete reports whether the step deletes matching lines.
func (s Step) IsDelete() bool {
	return s.Replacement == DeleteSentinel
}

// HasRange reports whether the step carries a line address.
func (s Step) HasRange() bool {
	return strings.TrimSpace(s.Range) != ""
}

// LastLine stands for "$", the last input line.
const LastLine = -1

// Range errors.
var (
	ErrInvalidRange = errors.New("invalid line range")
)

// LineRange is a parsed 1-based, inclusive line address.
type LineRange struct {
	Start int
	End   int
}

// ParseRange parses a line address of the form "N", "N,M", "N,$" or "$".
// Either end may be "$" (LastLine).
// A blank string yields ok=false with no error, meaning all lines.
func ParseRange(raw string) (r LineRange, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LineRange{}, false, nil
	}

	start, end, hasEnd := strings.Cut(raw, ",")
	first, err := parseLineNumber(start)
	if err != nil {
		return LineRange{}, false, fmt.Errorf("%w %q: %v", ErrInvalidRange, raw, err)
	}
	if !hasEnd {
		return LineRange{Start: first, End: first}, true, nil
	}

	last, err := parseLineNumber(end)
	if err != nil {
		return LineRange{}, false, fmt.Errorf("%w %q: %v", ErrInvalidRange, raw, err)
	}
	return LineRange{Start: first, End: last}, true, nil
}

func parseLineNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "$" {
		return LastLine, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a line number: %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("line numbers start at 1, got %d", n)
	}
	return n, nil
}

// Contains reports whether 1-based line n (of total lines) is addressed.
// As in sed, an end before the start addresses only the start line.
func (r LineRange) Contains(n, total int) bool {
	start, end := r.Start, r.End
	if start == LastLine {
		start = total
	}
	if end == LastLine {
		end = total
	}
	if n == start {
		return true
	}
	return n > start && n <= end
}
