package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cure-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cure-pass", hash)

	assert.True(t, CheckPasswordHash("s3cure-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestIsValidCedula(t *testing.T) {
	assert.True(t, IsValidCedula("1234567"))
	assert.True(t, IsValidCedula("9876543210"))

	assert.False(t, IsValidCedula("123456"))      // too short
	assert.False(t, IsValidCedula("12345678901")) // too long
	assert.False(t, IsValidCedula("0234567"))     // leading zero
	assert.False(t, IsValidCedula("12a4567"))     // non-digit
	assert.False(t, IsValidCedula(""))
}
