package session

import (
	"errors"
	"fmt"

	"github.com/dshills/sedstudio/internal/history"
	"github.com/dshills/sedstudio/internal/script"
)

// Session errors.
var (
	// ErrEmptyChain indicates an export was attempted with no steps.
	ErrEmptyChain = script.ErrEmptyChain

	// ErrEmptyHistory indicates a history export with no entries.
	ErrEmptyHistory = history.ErrEmptyHistory

	// ErrNoCommand indicates there is nothing to copy.
	ErrNoCommand = errors.New("no command to copy")
)

// IsWarning reports whether err should be shown as a warning rather than
// an error: the user asked for something that has nothing to act on.
func IsWarning(err error) bool {
	return errors.Is(err, ErrEmptyChain) || errors.Is(err, ErrEmptyHistory) || errors.Is(err, ErrNoCommand)
}

// OperationError is a failed file operation: a script or history export,
// a history import, or a sample load. Its message names the path so the
// user can tell which file was rejected.
type OperationError struct {
	Op     string // "export script", "export history", "import history" or "load sample"
	Target string // file path
	Err    error
}

// NewOperationError wraps err as a failure of op on the file at target.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets callers match the cause, such as fs.ErrNotExist or a
// history.ParseJSON error, through the wrapper.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
