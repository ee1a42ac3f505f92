// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer, never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
// Format rules (URL, numeric ranges) delegate to go-playground/validator.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
)

// # Failure Reasons

const (
	// ReasonMissing marks a required field that is absent or blank.
	ReasonMissing = "Missing"

	// ReasonInvalid marks a present field whose format or size is unacceptable.
	ReasonInvalid = "Invalid"
)

var (
	// formats is the shared go-playground engine used for single-value rules.
	formats = validator.New(validator.WithRequiredStructEnabled())

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, ReasonMissing, "This field is required")
	}
	return v
}

// Present fails if a non-string field was omitted from the payload.
func (v *Validator) Present(field string, present bool) *Validator {
	if !present {
		v.add(field, ReasonMissing, "This field is required")
	}
	return v
}

// MaxBytes fails if the UTF-8 encoded length of value exceeds max.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, ReasonInvalid, fmt.Sprintf("Maximum %d bytes", max))
	}
	return v
}

// URL fails if a non-blank value is not an absolute URL. Blank values are left
// to [Validator.Required].
func (v *Validator) URL(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	if err := formats.Var(value, "url"); err != nil {
		v.add(field, ReasonInvalid, "Must be a valid URL")
	}
	return v
}

// Positive fails if value is not strictly greater than zero.
func (v *Validator) Positive(field string, value int64) *Validator {
	if err := formats.Var(value, "gt=0"); err != nil {
		v.add(field, ReasonInvalid, "Must be a positive integer")
	}
	return v
}

// Custom adds a failure with a custom reason and message if the condition is true.
//
// # Example
//
//	v.Custom("loser_id", winner == loser, validate.ReasonInvalid, "Must differ from winner_id")
func (v *Validator) Custom(field string, failed bool, reason, message string) *Validator {
	if failed {
		v.add(field, reason, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// FirstErr is like [Validator.Err] but reports only the first failed rule,
// in the order the rules were chained.
func (v *Validator) FirstErr() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs[0])
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, reason, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Reason: reason, Message: message})
}

// FieldFailure is a shortcut to create a single-field validation error.
func FieldFailure(field, reason, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Reason:  reason,
		Message: message,
	})
}
