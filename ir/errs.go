package ir

import (
	"errors"
	"fmt"
)

var (
	ErrMissingType  = errors.New("missing nodeType")
	ErrMissingValue = errors.New("text node missing value")
	ErrBadShape     = errors.New("malformed document")
)

// DecodeError locates a decoding failure in the input tree.
type DecodeError struct {
	Path Path
	Err  error
}

func (e *DecodeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("richtext decode: %v", e.Err)
	}
	return fmt.Sprintf("richtext decode at %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
