// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Toyota", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", " \t\n ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
				assert.Equal(t, validate.ReasonMissing, ae.Details[0].Reason)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_URL checks the URL format rule.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"https", "https://example.com/cat.png", true},
		{"http_with_query", "http://img.example.org/a.jpg?size=2", true},
		{"blank_is_left_to_required", "", true},
		{"no_scheme", "example.com/cat.png", false},
		{"garbage", "not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.URL("image_url", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_MaxBytes counts bytes rather than runes.
*/
func TestValidator_MaxBytes(t *testing.T) {
	v := &validate.Validator{}
	v.MaxBytes("description", strings.Repeat("é", 3), 5)

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, validate.ReasonInvalid, ae.Details[0].Reason)

	ok := &validate.Validator{}
	ok.MaxBytes("description", strings.Repeat("a", 5), 5)
	assert.False(t, ok.HasErrors())
}

/*
TestValidator_FirstErr reports only the first failure in chain order.
*/
func TestValidator_FirstErr(t *testing.T) {
	v := &validate.Validator{}
	v.Required("name", "").
		Present("adult", false).
		Positive("winner_id", 0)

	assert.Len(t, apperr.As(v.Err()).Details, 3)

	ae := apperr.As(v.FirstErr())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "name", ae.Details[0].Field)
}

/*
TestFieldFailure builds a single-detail validation error.
*/
func TestFieldFailure(t *testing.T) {
	err := validate.FieldFailure("name", "DuplicateName", "Already exists")

	assert.Equal(t, apperr.CodeValidation, err.Code)
	assert.Equal(t, []apperr.FieldError{{Field: "name", Reason: "DuplicateName", Message: "Already exists"}}, err.Details)
}

/*
TestValidator_Custom records a failure only when the condition holds.
*/
func TestValidator_Custom(t *testing.T) {
	v := &validate.Validator{}
	v.Custom("winner_id", false, validate.ReasonInvalid, "unused").
		Custom("loser_id", true, validate.ReasonInvalid, "Must differ")

	ae := apperr.As(v.FirstErr())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "loser_id", ae.Details[0].Field)
	assert.Equal(t, validate.ReasonInvalid, ae.Details[0].Reason)
	assert.Equal(t, "Must differ", ae.Details[0].Message)
}
