package models

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every error returned from ValidationErrors.Err.
var ErrValidation = errors.New("validation failed")

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors accumulates field errors.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// Add records err against field.
func (v *ValidationErrors) Add(field string, err error) {
	if err == nil {
		return
	}
	v.AddMessage(field, err.Error())
}

// AddMessage records a message against field.
func (v *ValidationErrors) AddMessage(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Empty reports whether no errors were recorded.
func (v *ValidationErrors) Empty() bool {
	return len(v.Errors) == 0
}

// Err returns nil when empty, otherwise the receiver as an error.
func (v *ValidationErrors) Err() error {
	if v == nil || v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, e.Error())
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (v *ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
