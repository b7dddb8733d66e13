package parser

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

// InputError locates a malformed value in a play-by-play file. Line is the
// 1-based line number in the decompressed CSV.
type InputError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *InputError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
