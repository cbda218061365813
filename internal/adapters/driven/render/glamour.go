// Package render provides preview renderers for the editor's second
// pane: an ANSI terminal renderer built on glamour, and a plain
// passthrough for dumb terminals.
package render

import (
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure Glamour implements the interface.
var _ driven.Renderer = (*Glamour)(nil)

// Glamour renders markdown to ANSI-styled text. The renderer is rebuilt
// when the wrap width changes, since glamour fixes the width at
// construction time.
type Glamour struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	stages   []driven.RenderStage
}

// GlamourOption configures the renderer.
type GlamourOption func(*Glamour)

// WithStages prepends transformation stages run before rendering.
func WithStages(stages ...driven.RenderStage) GlamourOption {
	return func(g *Glamour) { g.stages = stages }
}

// NewGlamour creates a terminal markdown renderer wrapping at width.
func NewGlamour(width int, opts ...GlamourOption) (*Glamour, error) {
	g := &Glamour{width: width}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.rebuild(width); err != nil {
		return nil, err
	}
	return g, nil
}

// SetWidth changes the wrap width for subsequent renders.
func (g *Glamour) SetWidth(width int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if width == g.width {
		return nil
	}
	if err := g.rebuild(width); err != nil {
		return err
	}
	g.width = width
	return nil
}

// Render produces the ANSI preview of the markdown text.
func (g *Glamour) Render(text string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, stage := range g.stages {
		text = stage(text)
	}
	return g.renderer.Render(text)
}

// rebuild replaces the underlying renderer (caller must hold lock).
func (g *Glamour) rebuild(width int) error {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	g.renderer = renderer
	return nil
}
