package validation

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"orderwizard/internal/pkg/errs"
)

// Result is the outcome of one validator.
type Result struct {
	IsValid     bool                `json:"isValid"`
	Errors      []string            `json:"errors,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func newResult() Result {
	return Result{IsValid: true, FieldErrors: map[string][]string{}}
}

// AddFieldError records an error against a field.
func (r *Result) AddFieldError(field, message string) {
	if r.FieldErrors == nil {
		r.FieldErrors = map[string][]string{}
	}
	r.IsValid = false
	r.FieldErrors[field] = append(r.FieldErrors[field], message)
	r.Errors = append(r.Errors, field+": "+message)
}

// AddWarning records a message that does not block the action.
func (r *Result) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Merge folds another result into r.
func (r *Result) Merge(other Result) {
	for _, field := range slices.Sorted(maps.Keys(other.FieldErrors)) {
		for _, msg := range other.FieldErrors[field] {
			r.AddFieldError(field, msg)
		}
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HasField reports whether the field has at least one error.
func (r Result) HasField(field string) bool {
	return len(r.FieldErrors[field]) > 0
}

// Err converts an invalid result into joined ValueIsInvalidErrors, one per field,
// in field name order. A valid result gives nil.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}

	fields := slices.Sorted(maps.Keys(r.FieldErrors))
	problems := make([]error, 0, len(fields))
	for _, f := range fields {
		problems = append(problems,
			errs.NewValueIsInvalidErrorWithCause(f, errors.New(strings.Join(r.FieldErrors[f], "; "))))
	}
	return errors.Join(problems...)
}
