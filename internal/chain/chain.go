package chain

// Flags are the per-session command-line switches. They change how a command
// is rendered, never what the preview shows.
type Flags struct {
	InPlace  bool // -i
	Extended bool // -E

	// EscapeDelimiters backslash-escapes delimiter characters and shell
	// quotes inside patterns and replacements. Off by default so the
	// rendered text matches what the user typed.
	EscapeDelimiters bool
}

// DefaultFlags returns the flags a new session starts with.
func DefaultFlags() Flags {
	return Flags{Extended: true}
}

// Chain is an ordered sequence of steps.
// It is owned by a single session and not safe for concurrent use.
type Chain struct {
	steps []Step
}

// New creates an empty chain.
func New(steps ...Step) *Chain {
	c := &Chain{}
	for _, s := range steps {
		c.Append(s)
	}
	return c
}

// Append adds a step to the tail. Steps with an empty pattern are ignored.
// Returns true if the step was added.
func (c *Chain) Append(s Step) bool {
	if s.Pattern == "" {
		return false
	}
	c.steps = append(c.steps, s)
	return true
}

// RemoveLast removes the tail step. It is a no-op on an empty chain.
// Returns the removed step and whether one was removed.
func (c *Chain) RemoveLast() (Step, bool) {
	if len(c.steps) == 0 {
		return Step{}, false
	}
	last := c.steps[len(c.steps)-1]
	c.steps = c.steps[:len(c.steps)-1]
	return last, true
}

// Clear removes all steps.
func (c *Chain) Clear() {
	c.steps = nil
}

// List returns a copy of the steps in application order.
func (c *Chain) List() []Step {
	if len(c.steps) == 0 {
		return nil
	}
	out := make([]Step, len(c.steps))
	copy(out, c.steps)
	return out
}

// Len returns the number of steps.
func (c *Chain) Len() int {
	return len(c.steps)
}

// IsEmpty reports whether the chain has no steps.
func (c *Chain) IsEmpty() bool {
	return len(c.steps) == 0
}
