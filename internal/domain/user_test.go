package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  lifter_01 ", "Lifter@Example.com", "correct-horse-battery")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "lifter_01", user.Username)
	assert.Equal(t, "lifter@example.com", user.Email)
	assert.Equal(t, "correct-horse-battery", user.Password)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", "correct-horse-battery", ErrEmptyUsername},
		{"short username", "ab", "a@example.com", "correct-horse-battery", ErrInvalidUsername},
		{"username with space", "bad name", "a@example.com", "correct-horse-battery", ErrInvalidUsername},
		{"empty email", "lifter", "", "correct-horse-battery", ErrEmptyEmail},
		{"email without at", "lifter", "example.com", "correct-horse-battery", ErrInvalidEmail},
		{"email without domain dot", "lifter", "a@example", "correct-horse-battery", ErrInvalidEmail},
		{"email with two ats", "lifter", "a@b@example.com", "correct-horse-battery", ErrInvalidEmail},
		{"empty password", "lifter", "a@example.com", "", ErrEmptyPassword},
		{"short password", "lifter", "a@example.com", "short", ErrPasswordTooShort},
		{"long password", "lifter", "a@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateWithStoredHash(t *testing.T) {
	t.Parallel()

	user := User{
		ID:             uuid.New(),
		Username:       "lifter",
		Email:          "lifter@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())

	user.ID = uuid.Nil
	assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
}
