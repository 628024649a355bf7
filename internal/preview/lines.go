package preview

import (
	"strings"
	"unicode/utf8"
)

// SplitLines splits text on line terminators: \n, \r\n, \r, \v, \f,
// \x1c, \x1d, \x1e, \x85, U+2028 and U+2029. A trailing terminator does
// not produce an empty final line, and empty text has no lines.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminator(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// JoinLines joins lines with "\n".
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func isTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
