package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the wizard state.
type RenderOptions struct {
	// ActionURL is where interactive renderers post user input back to. The
	// HTML renderer uses it as the form action.
	ActionURL string
	// Hidden carries extra name/value pairs (session ids, tokens) that must
	// round-trip with every post.
	Hidden map[string]string
	// Theme carries resolved theme tokens. Renderers that support theming map
	// CSSVars onto inline custom properties.
	Theme *theme.RendererConfig
}
