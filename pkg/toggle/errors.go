package toggle

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined errors for the toggle package.
var (
	// ErrInvalidToggleSet indicates a definition batch failed validation and
	// was rejected as a whole.
	ErrInvalidToggleSet = errors.New("invalid toggle set")

	// ErrInvalidMergePolicy indicates an unknown merge policy was requested.
	ErrInvalidMergePolicy = errors.New("invalid merge policy")
)

// FieldError describes a single validation failure within a definition batch.
type FieldError struct {
	// Field is the path to the offending value, e.g. "toggles[2].variants[0].weight".
	Field string

	// Message is a human-readable description of the failure.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every validation failure found in a definition
// batch. A batch with any failure is rejected wholesale, so callers get the
// full list at once instead of fixing problems one at a time.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all collected failures.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "toggle set validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("toggle set validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "toggle set validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
