package preview

import (
	"errors"
	"fmt"

	"github.com/dshills/sedstudio/internal/chain"
)

// ErrPattern is matched by every PatternError.
var ErrPattern = errors.New("pattern error")

// PatternError reports a step whose pattern or range could not be used.
type PatternError struct {
	Step    int // 1-based position in the chain, 0 for a lone step
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	if e == nil {
		return ""
	}
	kind := "Regex Error"
	if errors.Is(e.Err, chain.ErrInvalidRange) {
		kind = "Range Error"
	}
	if e.Step > 0 {
		return fmt.Sprintf("%s: step %d: %v", kind, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v", kind, e.Err)
}

func (e *PatternError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches ErrPattern as well as the wrapped error.
func (e *PatternError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrPattern {
		return true
	}
	return errors.Is(e.Err, target)
}
