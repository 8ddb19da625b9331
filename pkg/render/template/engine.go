package template

import "io"

// FilterFunc transforms a template value. param is nil when the filter is
// used without an argument.
type FilterFunc func(input any, param any) (any, error)

// Engine renders named templates or inline template source into w.
type Engine interface {
	Render(w io.Writer, name string, data any) error
	RenderString(w io.Writer, source string, data any) error
	RegisterFilter(name string, fn FilterFunc) error
}
