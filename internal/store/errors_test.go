package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrProgressNotFound", ErrProgressNotFound, true},
		{"wrapped ErrSessionNotFound", fmt.Errorf("lookup: %w", ErrSessionNotFound), true},
		{"duplicate is not not-found", ErrEmailExists, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"ErrDuplicate", ErrDuplicate, true},
		{"ErrEmailExists", ErrEmailExists, true},
		{"ErrUsernameExists", ErrUsernameExists, true},
		{"wrapped ErrProgressExists", fmt.Errorf("insert: %w", ErrProgressExists), true},
		{"not found is not duplicate", ErrUserNotFound, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	withCause := NewStoreError("progress", "update", "row vanished", ErrProgressNotFound)
	assert.Equal(t,
		"update operation on progress failed: row vanished: entity not found: progress",
		withCause.Error())
	assert.ErrorIs(t, withCause, ErrProgressNotFound)
	assert.ErrorIs(t, withCause, ErrNotFound)

	bare := NewStoreError("user", "create", "invalid", nil)
	assert.Equal(t, "create operation on user failed: invalid", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
