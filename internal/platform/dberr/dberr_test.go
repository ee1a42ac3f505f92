// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/dberr"
)

/*
TestWrap_Classification checks that driver errors of both backends collapse
into the same application errors.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *apperr.AppError
	}{
		{"pgx_no_rows", pgx.ErrNoRows, dberr.ErrNotFound},
		{"gorm_not_found", gorm.ErrRecordNotFound, dberr.ErrNotFound},
		{"pg_unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, dberr.ErrUniqueViolation},
		{"gorm_duplicated", gorm.ErrDuplicatedKey, dberr.ErrUniqueViolation},
		{"sqlite_unique_text", errors.New("constraint failed: UNIQUE constraint failed: thing.name_key (2067)"), dberr.ErrUniqueViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(fmt.Errorf("driver: %w", tt.err), "test_action")
			assert.ErrorIs(t, wrapped, tt.want)
		})
	}
}

/*
TestWrap_StorageUnavailable ensures unknown failures become the coarse 503 error.
*/
func TestWrap_StorageUnavailable(t *testing.T) {
	wrapped := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}, "update")

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeStorageUnavailable, ae.Code)
	assert.Contains(t, ae.Cause.Error(), "update")
}

/*
TestWrap_Passthrough keeps nil and already-classified errors untouched.
*/
func TestWrap_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	classified := apperr.NotFound("Thing")
	assert.Same(t, classified, dberr.Wrap(classified, "noop"))
}
