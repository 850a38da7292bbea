package shellwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Simple(t *testing.T) {
	words, err := Split("echo hello world")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "hello", "world"}, words)
}

func TestSplit_ExtraWhitespace(t *testing.T) {
	words, err := Split("  echo   hi  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "hi"}, words)
}

func TestSplit_SingleQuotes(t *testing.T) {
	words, err := Split(`echo 'hello world'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "hello world"}, words)
}

func TestSplit_DoubleQuotes(t *testing.T) {
	words, err := Split(`echo "hello world"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "hello world"}, words)
}

func TestSplit_Escapes(t *testing.T) {
	words, err := Split(`echo hello\ world`)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "hello world"}, words)
}

func TestSplit_UnterminatedQuote(t *testing.T) {
	_, err := Split(`echo "unterminated`)
	assert.Error(t, err)
}

func TestSplit_TrailingBackslash(t *testing.T) {
	_, err := Split(`echo \`)
	assert.Error(t, err)
}

func TestSplit_Empty(t *testing.T) {
	words, err := Split("")
	require.NoError(t, err)
	assert.Empty(t, words)
}
