package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/sedstudio/internal/chain"
)

// Parse errors.
var (
	ErrNotSed          = errors.New("not a sed command")
	ErrUnterminated    = errors.New("unterminated quote")
	ErrNoExpression    = errors.New("missing expression")
	ErrBadExpression   = errors.New("malformed expression")
	ErrUnknownSwitch   = errors.New("unknown option")
	ErrMissingArgument = errors.New("option requires an argument")
)

// Command is a parsed sed invocation.
type Command struct {
	Flags  chain.Flags
	Steps  []chain.Step
	Target string
}

// ParseCommand parses a command produced by RenderChain or RenderSingle back
// into steps. Patterns and replacements containing an unescaped delimiter
// cannot be recovered.
func ParseCommand(cmd string) (Command, error) {
	args, err := splitArgs(cmd)
	if err != nil {
		return Command{}, err
	}
	if len(args) == 0 || args[0] != Program {
		return Command{}, ErrNotSed
	}

	var (
		out   Command
		exprs []string
		rest  []string
	)
	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-i":
			out.Flags.InPlace = true
		case arg == "-E":
			out.Flags.Extended = true
		case arg == "-e":
			if i+1 >= len(args) {
				return Command{}, fmt.Errorf("%w: -e", ErrMissingArgument)
			}
			i++
			exprs = append(exprs, args[i])
		case strings.HasPrefix(arg, "-") && len(arg) > 1 && len(rest) == 0:
			return Command{}, fmt.Errorf("%w: %s", ErrUnknownSwitch, arg)
		default:
			rest = append(rest, arg)
		}
	}

	// Single-expression form: the first operand is the script.
	if len(exprs) == 0 && len(rest) > 1 {
		exprs = append(exprs, rest[0])
		rest = rest[1:]
	}
	if len(rest) > 0 {
		out.Target = rest[len(rest)-1]
	}

	for _, e := range exprs {
		s, err := ParseExpression(e)
		if err != nil {
			return Command{}, err
		}
		out.Steps = append(out.Steps, s)
	}
	return out, nil
}

// ParseExpression parses one unquoted expression as rendered by Expression.
func ParseExpression(expr string) (chain.Step, error) {
	addrEnd := strings.IndexFunc(expr, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == ',' || r == '$' || r == ' ')
	})
	if addrEnd < 0 {
		return chain.Step{}, fmt.Errorf("%w: %q", ErrNoExpression, expr)
	}
	step := chain.Step{Range: expr[:addrEnd]}
	body := expr[addrEnd:]

	switch {
	case strings.HasPrefix(body, "s"+string(SubstituteDelimiter)):
		parts := splitUnescaped(body[2:], SubstituteDelimiter)
		if len(parts) != 3 {
			return chain.Step{}, fmt.Errorf("%w: %q", ErrBadExpression, expr)
		}
		switch parts[2] {
		case "g":
			step.Global = true
		case "":
		default:
			return chain.Step{}, fmt.Errorf("%w: flags %q", ErrBadExpression, parts[2])
		}
		step.Pattern = parts[0]
		step.Replacement = parts[1]
		return step, nil

	case strings.HasPrefix(body, string(DeleteDelimiter)) && strings.HasSuffix(body, string(DeleteDelimiter)+"d") && len(body) >= 3:
		parts := splitUnescaped(body[1:len(body)-1], DeleteDelimiter)
		if len(parts) != 2 || parts[1] != "" {
			return chain.Step{}, fmt.Errorf("%w: %q", ErrBadExpression, expr)
		}
		step.Pattern = parts[0]
		step.Replacement = chain.DeleteSentinel
		return step, nil
	}

	return chain.Step{}, fmt.Errorf("%w: %q", ErrBadExpression, expr)
}

// splitUnescaped splits s on delim, treating backslash-delim as a literal
// delim. Other escapes are kept as written.
func splitUnescaped(s string, delim byte) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' && i+1 < len(s) {
			if s[i+1] != delim {
				cur.WriteByte(ch)
			}
			cur.WriteByte(s[i+1])
			i++
			continue
		}
		if ch == delim {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	return append(parts, cur.String())
}

// splitArgs splits a command line into words using POSIX shell quoting
// rules for single quotes, double quotes and backslashes.
func splitArgs(s string) ([]string, error) {
	var (
		args   []string
		cur    strings.Builder
		inWord bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		case ch == '\'':
			end := strings.IndexByte(s[i+1:], '\'')
			if end < 0 {
				return nil, ErrUnterminated
			}
			cur.WriteString(s[i+1 : i+1+end])
			i += end + 1
			inWord = true
		case ch == '"':
			j := i + 1
			for ; j < len(s) && s[j] != '"'; j++ {
				if s[j] == '\\' && j+1 < len(s) && strings.IndexByte(`"\$`+"`", s[j+1]) >= 0 {
					j++
				}
				cur.WriteByte(s[j])
			}
			if j >= len(s) {
				return nil, ErrUnterminated
			}
			i = j
			inWord = true
		case ch == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
			inWord = true
		default:
			cur.WriteByte(ch)
			inWord = true
		}
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
