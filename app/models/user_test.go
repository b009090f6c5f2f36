package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	u, err := CreateUser("ada", "ada@example.com", "s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", u.Password)
	assert.True(t, u.CheckPassword("s3cret!"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"name too short", "ab", "ada@example.com", "s3cret!"},
		{"invalid email", "ada", "not-an-email", "s3cret!"},
		{"password too short", "ada", "ada@example.com", "abc"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateUser(tc.username, tc.email, tc.password)
			assert.Error(t, err)
		})
	}
}

func TestSetPassword(t *testing.T) {
	u, err := CreateUser("ada", "ada@example.com", "s3cret!")
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("new-password"))
	assert.True(t, u.CheckPassword("new-password"))
	assert.False(t, u.CheckPassword("s3cret!"))
}
