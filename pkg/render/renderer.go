package render

import (
	"context"
)

// Renderer converts a composed wizard view into a byte representation (HTML,
// plain text, etc.). Renderers never validate; they display the values and
// errors they are handed.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view WizardView, options RenderOptions) ([]byte, error)
}
