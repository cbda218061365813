package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughAppliesStages(t *testing.T) {
	upper := func(text string) string { return strings.ToUpper(text) }
	exclaim := func(text string) string { return text + "!" }

	out, err := NewPassthrough(upper, exclaim).Render("hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO!", out)
}

func TestPassthroughWithoutStages(t *testing.T) {
	out, err := NewPassthrough().Render("# Hi\n")
	require.NoError(t, err)
	assert.Equal(t, "# Hi\n", out)
}

func TestGlamourRendersMarkdown(t *testing.T) {
	g, err := NewGlamour(80)
	require.NoError(t, err)

	out, err := g.Render("# Hello\n\nSome *styled* text.")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "styled")
	// Markdown syntax is consumed by the renderer.
	assert.NotContains(t, out, "*styled*")
}

func TestGlamourSetWidth(t *testing.T) {
	g, err := NewGlamour(80)
	require.NoError(t, err)

	require.NoError(t, g.SetWidth(40))
	out, err := g.Render("plain text")
	require.NoError(t, err)
	assert.Contains(t, out, "plain text")
}

func TestGlamourStages(t *testing.T) {
	stage := func(text string) string {
		return strings.ReplaceAll(text, "TODO", "DONE")
	}
	g, err := NewGlamour(80, WithStages(stage))
	require.NoError(t, err)

	out, err := g.Render("item TODO list")
	require.NoError(t, err)
	assert.Contains(t, out, "DONE")
	assert.NotContains(t, out, "TODO")
}
