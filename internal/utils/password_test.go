package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2!", hash)

	assert.True(t, CheckPassword(hash, "hunter2!"))
	assert.False(t, CheckPassword(hash, "hunter3!"))
	assert.False(t, CheckPassword("", "hunter2!"))
}

func TestGenerateTempPassword(t *testing.T) {
	a, err := GenerateTempPassword()
	require.NoError(t, err)
	b, err := GenerateTempPassword()
	require.NoError(t, err)

	assert.Len(t, a, 12)
	assert.Len(t, b, 12)
	assert.NotEqual(t, a, b)
}
