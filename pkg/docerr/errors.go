// Package docerr defines the error taxonomy shared by every stage of the
// document-generation pipeline. Callers distinguish failure kinds with
// errors.Is/errors.As; the HTTP layer maps them onto status codes.
package docerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing template directory or a missing required
	// unit inside one.
	ErrNotFound = errors.New("not found")

	// ErrLoad marks a validation unit that exists but cannot be parsed or
	// compiled.
	ErrLoad = errors.New("load error")

	// ErrConversion marks a rendering or PDF-conversion failure unrelated to
	// payload correctness.
	ErrConversion = errors.New("conversion error")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Loadf wraps ErrLoad with a formatted message.
func Loadf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrLoad)...)
}

// Conversionf wraps ErrConversion with a formatted message.
func Conversionf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConversion)...)
}

// Violation describes a single failed payload constraint.
type Violation struct {
	// Field is the dotted path of the offending value. "(root)" for
	// document-level constraints such as missing required properties.
	Field string `json:"field"`

	// Message is a human-readable description of the constraint.
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" || v.Field == "(root)" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// ValidationError aggregates every violated constraint found in a payload.
// Validation never stops at the first bad field: clients get the complete
// list in one round trip.
type ValidationError struct {
	Template   string
	Violations []Violation
}

// NewValidationError builds a ValidationError for a template. At least one
// violation is expected; callers with none should not fail.
func NewValidationError(template string, violations ...Violation) *ValidationError {
	return &ValidationError{Template: template, Violations: violations}
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed")
	if e.Template != "" {
		fmt.Fprintf(&sb, " for %q", e.Template)
	}
	if len(e.Violations) > 0 {
		sb.WriteString(": ")
		parts := make([]string, 0, len(e.Violations))
		for _, violation := range e.Violations {
			parts = append(parts, violation.String())
		}
		sb.WriteString(strings.Join(parts, "; "))
	}
	return sb.String()
}

// Messages returns the human-readable description of every violation.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		out = append(out, violation.String())
	}
	return out
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsLoad reports whether err is, or wraps, ErrLoad.
func IsLoad(err error) bool {
	return errors.Is(err, ErrLoad)
}

// IsConversion reports whether err is, or wraps, ErrConversion.
func IsConversion(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsValidation reports whether err is, or wraps, a ValidationError. The
// aggregated error is returned for callers that need the violation list.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
