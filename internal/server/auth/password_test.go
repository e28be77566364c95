package auth

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("abc123", bcryptTestCost)
	require.NoError(t, err)
	require.NotEqual(t, "abc123", hash)

	assert.True(t, CheckPassword("abc123", hash))
	assert.False(t, CheckPassword("abc124", hash))
}

func TestHashPassword_NonDeterministicOutput(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("abc123", bcryptTestCost)
	require.NoError(t, err)
	h2, err := HashPassword("abc123", bcryptTestCost)
	require.NoError(t, err)

	// Different salts, both verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("abc123", h1))
	assert.True(t, CheckPassword("abc123", h2))
}

func TestHashPassword_InvalidCost(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("abc123", 99)
	assert.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "letters and digits", password: "abc123", wantErr: false},
		{name: "mixed case", password: "Secret99", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "letters only", password: "abcdef", wantErr: true},
		{name: "digits only", password: "123456", wantErr: true},
		{name: "contains symbol", password: "abc123!", wantErr: true},
		{name: "contains space", password: "abc 123", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrorValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

// bcryptTestCost keeps password tests fast.
const bcryptTestCost = 4
