// Package validation evaluates the declarative per-field rules (required,
// minLength, maxLength) against collected form values, and lints whole
// schemas for structural problems. Everything here is pure: no I/O, no
// logging, and the same inputs always produce the same result.
package validation
