package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeMap(t *testing.T) {
	m := NewSafeMap[string]()

	_, ok := m.Get("https://example.com/founders/1-a-b")
	require.False(t, ok)

	m.Set("https://example.com/founders/1-a-b", "https://linkedin.com/in/ab")
	v, ok := m.Get("https://example.com/founders/1-a-b")
	require.True(t, ok)
	require.Equal(t, "https://linkedin.com/in/ab", v)

	m.Set("https://example.com/founders/1-a-b", "")
	v, ok = m.Get("https://example.com/founders/1-a-b")
	require.True(t, ok, "an empty link is still a memoized result")
	require.Empty(t, v)
}
