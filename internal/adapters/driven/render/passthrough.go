package render

import (
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure Passthrough implements the interface.
var _ driven.Renderer = (*Passthrough)(nil)

// Passthrough returns the markdown text unchanged, for terminals where
// ANSI styling is unwanted. Stages still run, so table rewriting and
// similar transformations survive.
type Passthrough struct {
	stages []driven.RenderStage
}

// NewPassthrough creates a plain renderer with optional stages.
func NewPassthrough(stages ...driven.RenderStage) *Passthrough {
	return &Passthrough{stages: stages}
}

// Render applies the stages and returns the result.
func (p *Passthrough) Render(text string) (string, error) {
	for _, stage := range p.stages {
		text = stage(text)
	}
	return text, nil
}
