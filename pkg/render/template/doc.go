// Package template defines the template engine seam HTML renderers draw
// through. The pongo subpackage provides the default pongo2 implementation.
package template
