package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONList(t *testing.T) {
	got, err := ParseJSONList(`["sketch", " Auto ", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"sketch", "Auto"}, got)

	got, err = ParseJSONList("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseJSONList("sketch,Auto")
	assert.Error(t, err)
}

func TestParseHashtags(t *testing.T) {
	assert.Equal(t, []string{"sunset", "sea", "море"}, ParseHashtags("Evening #Sunset by the #sea #sunset #море"))
	assert.Empty(t, ParseHashtags("no tags here # alone"))
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"#Blue", "ink"}, []string{"blue", " ", "Wash"})
	assert.Equal(t, []string{"blue", "ink", "wash"}, got)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Dedupe([]string{"a", "b", "a"}))
}
