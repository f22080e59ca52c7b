package data

import (
	"errors"
	"fmt"
)

// ErrParse marks every failure to read or decode a located data file.
var ErrParse = errors.New("invalid data file")

// ParseError records a data file that exists but could not be decoded.
type ParseError struct {
	Err    error
	Path   string
	Format Format
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s data file %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ParseError as ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
