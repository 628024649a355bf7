// Package compiler renders a chain of edit steps as a sed command line.
//
// Rendering is deterministic and never validates regular expressions:
// patterns, replacements and line ranges are interpolated as typed unless
// delimiter escaping is switched on in the flags.
package compiler

import (
	"strings"

	"github.com/dshills/sedstudio/internal/chain"
)

// Rendering constants.
const (
	Program = "sed"

	// PlaceholderTarget is the file name used in chain mode when none is set.
	PlaceholderTarget = "target_file.txt"

	// SingleStepTarget is the file name used in single-step mode when none is set.
	SingleStepTarget = "file.txt"

	SubstituteDelimiter = '|'
	DeleteDelimiter     = '/'
)

// Expression renders one step as a sed expression, without shell quoting.
//
//	s|pattern|replacement|g    substitute every match
//	s|pattern|replacement|     substitute the first match
//	/pattern/d                 delete matching lines
//
// A non-empty Range is prefixed verbatim.
func Expression(s chain.Step, escape bool) string {
	var b strings.Builder
	b.WriteString(s.Range)

	if s.IsDelete() {
		pattern := s.Pattern
		if escape {
			pattern = escapeDelimiter(pattern, DeleteDelimiter)
		}
		b.WriteByte(DeleteDelimiter)
		b.WriteString(pattern)
		b.WriteByte(DeleteDelimiter)
		b.WriteByte('d')
		return b.String()
	}

	pattern, replacement := s.Pattern, s.Replacement
	if escape {
		pattern = escapeDelimiter(pattern, SubstituteDelimiter)
		replacement = escapeDelimiter(replacement, SubstituteDelimiter)
	}
	b.WriteByte('s')
	b.WriteByte(SubstituteDelimiter)
	b.WriteString(pattern)
	b.WriteByte(SubstituteDelimiter)
	b.WriteString(replacement)
	b.WriteByte(SubstituteDelimiter)
	if s.Global {
		b.WriteByte('g')
	}
	return b.String()
}

// RenderChain renders the steps as one multi-expression invocation:
//
//	sed [-i ][-E ]-e 'expr1' -e 'expr2' target
//
// An empty target renders as PlaceholderTarget. An empty chain keeps the
// separator, yielding "sed -E  target_file.txt".
func RenderChain(steps []chain.Step, flags chain.Flags, target string) string {
	if target == "" {
		target = PlaceholderTarget
	}

	exprs := make([]string, 0, len(steps))
	for _, s := range steps {
		exprs = append(exprs, "-e "+quote(Expression(s, flags.EscapeDelimiters), flags.EscapeDelimiters))
	}

	var b strings.Builder
	b.WriteString(Program)
	b.WriteByte(' ')
	b.WriteString(switches(flags))
	b.WriteString(strings.Join(exprs, " "))
	b.WriteByte(' ')
	b.WriteString(target)
	return b.String()
}

// RenderSingle renders one step in the single-expression form:
//
//	sed [-i ][-E ]'[range]s|pattern|replacement|[g]' target
//
// An empty target renders as SingleStepTarget. The step is rendered even
// when its pattern is empty.
func RenderSingle(s chain.Step, flags chain.Flags, target string) string {
	if target == "" {
		target = SingleStepTarget
	}
	return Program + " " + switches(flags) + quote(Expression(s, flags.EscapeDelimiters), flags.EscapeDelimiters) + " " + target
}

// switches returns the option prefix, each option followed by a space.
func switches(flags chain.Flags) string {
	var s string
	if flags.InPlace {
		s += "-i "
	}
	if flags.Extended {
		s += "-E "
	}
	return s
}

// quote wraps an expression in single quotes. Embedded single quotes are
// only rewritten when escaping is enabled.
func quote(expr string, escape bool) string {
	if escape {
		expr = strings.ReplaceAll(expr, "'", `'\''`)
	}
	return "'" + expr + "'"
}

// escapeDelimiter backslash-escapes unescaped occurrences of delim.
func escapeDelimiter(s string, delim byte) string {
	if strings.IndexByte(s, delim) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+1 < len(s) {
			b.WriteByte(ch)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if ch == delim {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}
