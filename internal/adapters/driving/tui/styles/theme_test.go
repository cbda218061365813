package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStylesNilThemeFallsBack(t *testing.T) {
	s := NewStyles(nil)

	assert.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestDefaultStylesKeepTheme(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
}
