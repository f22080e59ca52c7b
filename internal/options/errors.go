package options

import (
	"errors"
	"fmt"
)

// Sentinel errors for argument parsing
var (
	ErrInvalidOverride    = errors.New("invalid override")
	ErrMissingValue       = errors.New("missing value")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrEmptyKey           = errors.New("empty key")
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// InvalidOverrideError reports an override that cannot be used. Reason is one
// of ErrMissingValue, ErrDuplicateKey or ErrEmptyKey.
type InvalidOverrideError struct {
	Reason error
	Key    string
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid override --%s: %v", e.Key, e.Reason)
}

func (e *InvalidOverrideError) Unwrap() error {
	return e.Reason
}

// Is reports InvalidOverrideError as ErrInvalidOverride.
func (e *InvalidOverrideError) Is(target error) bool {
	return target == ErrInvalidOverride
}
