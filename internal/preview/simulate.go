package preview

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/sedstudio/internal/chain"
)

// line is a line of the pattern space tagged with its input line number.
type line struct {
	num  int
	text string
}

// program is a step ready to run.
type program struct {
	step     chain.Step
	re       *regexp.Regexp
	template string
	rng      chain.LineRange
	ranged   bool
}

// compile prepares every step before any text is touched, so a bad step
// fails the whole run instead of producing partial output.
func compile(steps []chain.Step) ([]program, error) {
	progs := make([]program, 0, len(steps))
	for i, s := range steps {
		fail := func(err error) error {
			pos := 0
			if len(steps) > 1 {
				pos = i + 1
			}
			return &PatternError{Step: pos, Pattern: s.Pattern, Err: err}
		}

		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fail(err)
		}

		p := program{step: s, re: re}
		if !s.IsDelete() {
			p.template, err = TranslateReplacement(s.Replacement, re.NumSubexp())
			if err != nil {
				return nil, fail(err)
			}
		}

		p.rng, p.ranged, err = chain.ParseRange(s.Range)
		if err != nil {
			return nil, fail(err)
		}
		progs = append(progs, p)
	}
	return progs, nil
}

// Simulate applies steps in order to lines and returns the resulting lines.
// The input slice is not modified. On error no output is returned.
func Simulate(steps []chain.Step, lines []string) ([]string, error) {
	progs, err := compile(steps)
	if err != nil {
		return nil, err
	}

	space := make([]line, len(lines))
	for i, l := range lines {
		space[i] = line{num: i + 1, text: l}
	}
	total := len(lines)

	for _, p := range progs {
		space = p.run(space, total)
	}

	out := make([]string, len(space))
	for i, l := range space {
		out[i] = l.text
	}
	return out, nil
}

// SimulateText splits text into lines, applies steps, and joins the result
// with "\n".
func SimulateText(steps []chain.Step, text string) (string, error) {
	out, err := Simulate(steps, SplitLines(text))
	if err != nil {
		return "", err
	}
	return JoinLines(out), nil
}

// run applies one step to the pattern space.
func (p program) run(space []line, total int) []line {
	if p.step.IsDelete() {
		kept := space[:0:0]
		for _, l := range space {
			if p.addressed(l, total) && p.re.MatchString(l.text) {
				continue
			}
			kept = append(kept, l)
		}
		return kept
	}

	out := make([]line, len(space))
	for i, l := range space {
		out[i] = l
		if p.addressed(l, total) {
			out[i].text = p.substitute(l.text)
		}
	}
	return out
}

func (p program) addressed(l line, total int) bool {
	return !p.ranged || p.rng.Contains(l.num, total)
}

func (p program) substitute(s string) string {
	if p.step.Global {
		return p.re.ReplaceAllString(s, p.template)
	}
	loc := p.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var b strings.Builder
	b.WriteString(s[:loc[0]])
	b.Write(p.re.ExpandString(nil, p.template, s, loc))
	b.WriteString(s[loc[1]:])
	return b.String()
}

// TranslateReplacement converts a sed replacement template into the
// template syntax of regexp.Expand. groups is the number of capture groups
// in the pattern; referring to a group that does not exist is an error, as
// it is in sed.
//
//	\1..\9  ->  ${1}..${9}
//	&       ->  ${0}
//	\&      ->  &
//	\n, \t  ->  newline, tab
//	$       ->  $$
func TranslateReplacement(repl string, groups int) (string, error) {
	var b strings.Builder
	b.Grow(len(repl))
	for i := 0; i < len(repl); i++ {
		ch := repl[i]
		switch ch {
		case '\\':
			if i+1 >= len(repl) {
				b.WriteByte('\\')
				continue
			}
			i++
			next := repl[i]
			switch {
			case next >= '0' && next <= '9':
				n := int(next - '0')
				if n > groups {
					return "", fmt.Errorf("invalid reference \\%d on s command's RHS", n)
				}
				fmt.Fprintf(&b, "${%d}", n)
			case next == 'n':
				b.WriteByte('\n')
			case next == 't':
				b.WriteByte('\t')
			case next == '$':
				b.WriteString("$$")
			default:
				b.WriteByte(next)
			}
		case '&':
			b.WriteString("${0}")
		case '$':
			b.WriteString("$$")
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}
