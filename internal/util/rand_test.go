package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	s, err := RandomString(32)
	require.NoError(t, err)
	assert.NotEmpty(t, s)

	other, err := RandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)

	// URL-safe: tokens end up in query strings.
	assert.NotContains(t, s, "+")
	assert.NotContains(t, s, "/")
	assert.NotContains(t, s, "=")
}
