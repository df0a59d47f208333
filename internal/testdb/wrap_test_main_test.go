package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvIsTrue(t *testing.T) {
	t.Setenv(EnvBlock, "")
	require.False(t, envIsTrue(EnvBlock))
	t.Setenv(EnvBlock, "nope")
	require.False(t, envIsTrue(EnvBlock))
	t.Setenv(EnvBlock, "1")
	require.True(t, envIsTrue(EnvBlock))
	t.Setenv(EnvBlock, "true")
	require.True(t, envIsTrue(EnvBlock))
}

func TestKeptContainers(t *testing.T) {
	require.Empty(t, keptContainers())
	keep("abc123")
	keep("def456")
	got := keptContainers()
	require.Equal(t, []string{"abc123", "def456"}, got)
	// The returned slice is a copy.
	got[0] = "changed"
	require.Equal(t, "abc123", keptContainers()[0])
}
