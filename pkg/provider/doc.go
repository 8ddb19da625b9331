// Package provider supplies form schemas to the wizard. Client talks to the
// remote form API (login, then fetch by roll number), FileProvider decodes
// JSON, YAML or TOML documents from disk, an fs.FS or a URL, and
// OpenAPIProvider derives a schema from an operation's request body.
// Decorate wraps any of them with model.Decorator post-processing.
//
// Providers never retry; a failed fetch surfaces once and the user decides
// whether to try again.
package provider
