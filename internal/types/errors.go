package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every pipeline failure wraps exactly one of these.
var (
	ErrUsage          = errors.New("usage error")
	ErrParse          = errors.New("parse error")
	ErrMalformedEntry = errors.New("malformed entry")
	ErrFileNotFound   = errors.New("file not found")
	ErrFileUnreadable = errors.New("file unreadable")
	ErrDivisionByZero = errors.New("division by zero")
)

// EntryError locates a failure at a report entry and, when known, a file.
type EntryError struct {
	Index int
	Path  string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("duplication %d: %s: %v", e.Index, e.Path, e.Err)
	}
	return fmt.Sprintf("duplication %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
