// Package uischema loads overlay documents that adjust fetched form schemas
// (labels, placeholders, test ids, messages, field order) without touching
// the schema source. Overlays are applied through a model.Decorator so
// providers stay unaware of them.
package uischema
