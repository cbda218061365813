package driven

// Renderer turns raw markdown into a rendered representation for the
// preview pane. The core treats it as a pure function; implementations
// decide the output form (ANSI-styled text in the terminal adapter).
type Renderer interface {
	Render(text string) (string, error)
}

// RenderStage is a pluggable pre-render transformation (table rewriting,
// raw passthrough marking, and the like). Stages run in order before the
// renderer proper.
type RenderStage func(text string) string
