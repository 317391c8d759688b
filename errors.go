package xlgrid

import (
	"errors"
	"fmt"
)

// Errors returned by the document model. They are raised synchronously at
// the call that caused them; test with errors.Is.
var (
	ErrMalformedReference   = errors.New("malformed cell reference")
	ErrInvalidDivisorTarget = errors.New("invalid divisor target")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrUnsupportedStyleKey  = errors.New("unsupported style key")
	ErrEmptyMerge           = errors.New("merge of an empty cell set")
)

// WriteError reports a failure of the serialization backend, as opposed to
// an invalid document model.
type WriteError struct {
	Op    string // backend operation, e.g. "merge", "save"
	Sheet string
	Cell  string // A1-style cell or range, may be empty
	Err   error
}

func (e *WriteError) Error() string {
	switch {
	case e.Sheet != "" && e.Cell != "":
		return fmt.Sprintf("write %s %s!%s: %v", e.Op, e.Sheet, e.Cell, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("write %s %s: %v", e.Op, e.Sheet, e.Err)
	default:
		return fmt.Sprintf("write %s: %v", e.Op, e.Err)
	}
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError reports whether err came from the serialization backend.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

func writeErr(op, sheet, cell string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Op: op, Sheet: sheet, Cell: cell, Err: err}
}
