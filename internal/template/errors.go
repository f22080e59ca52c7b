package template

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rendering
var (
	ErrInsufficientContext = errors.New("insufficient context")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrSyntax              = errors.New("template syntax error")
)

// InsufficientContextError reports a property the template needs but the context lacks.
type InsufficientContextError struct {
	Property string
}

func (e *InsufficientContextError) Error() string {
	return fmt.Sprintf("insufficient context: no value for %q", e.Property)
}

// Is reports InsufficientContextError as ErrInsufficientContext.
func (e *InsufficientContextError) Is(target error) bool {
	return target == ErrInsufficientContext
}

// NotFoundError reports a template name that no search directory holds.
type NotFoundError struct {
	Name       string
	SearchPath []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found in search path: %s", e.Name, strings.Join(e.SearchPath, ":"))
}

// Is reports NotFoundError as ErrTemplateNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// SyntaxError records malformed template markup and where it was found.
type SyntaxError struct {
	Err  error
	Name string
	Line int
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Name, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is reports SyntaxError as ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
