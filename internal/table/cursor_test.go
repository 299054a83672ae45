package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines_TrimsCarriageReturns(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\r\nb\n\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, lines)
}

func TestLineCursor(t *testing.T) {
	c := NewLineCursor([]string{"one", "", "  ", "two"})

	line, ok := c.Peek()
	require.True(t, ok)
	assert.Equal(t, "one", line)
	assert.Equal(t, 0, c.Line())

	line, ok = c.Next()
	require.True(t, ok)
	assert.Equal(t, "one", line)
	assert.Equal(t, 1, c.Line())

	c.SkipBlank()
	line, ok = c.Next()
	require.True(t, ok)
	assert.Equal(t, "two", line)
	assert.Equal(t, 4, c.Line())
	assert.True(t, c.Done())

	_, ok = c.Next()
	assert.False(t, ok)
}
