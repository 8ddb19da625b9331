package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// RollNumberPlaceholder is replaced with the identity's roll number in
// FileProvider locations, so one directory can hold a form per user.
const RollNumberPlaceholder = "{rollNumber}"

// FileProvider serves schemas from local files, an fs.FS or a plain URL
// through a schema.Loader. Supported formats are JSON, YAML and TOML.
type FileProvider struct {
	loader  *schema.Loader
	resolve func(location string) (schema.Source, error)
	pattern string
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider resolves location as a file path or http(s) URL.
func NewFileProvider(loader *schema.Loader, location string) *FileProvider {
	return &FileProvider{loader: loader, resolve: schema.ParseSource, pattern: location}
}

// NewFSProvider resolves name inside the loader's fs.FS.
func NewFSProvider(loader *schema.Loader, name string) *FileProvider {
	return &FileProvider{
		loader: loader,
		resolve: func(location string) (schema.Source, error) {
			return schema.SourceFromFS(location), nil
		},
		pattern: name,
	}
}

// Location returns the source location for identity.
func (p *FileProvider) Location(identity Identity) string {
	return strings.ReplaceAll(p.pattern, RollNumberPlaceholder, strings.TrimSpace(identity.RollNumber))
}

// FetchSchema loads and decodes the document for identity.
func (p *FileProvider) FetchSchema(ctx context.Context, identity Identity) (*model.FormSchema, error) {
	if p.loader == nil {
		return nil, goerr.New("file provider has no loader")
	}
	location := p.Location(identity)
	src, err := p.resolve(location)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrFetch, err), "invalid schema location", goerr.V("location", location))
	}
	doc, err := p.loader.Load(ctx, src)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrFetch, err), "failed to load schema", goerr.V("location", location))
	}
	form, err := schema.Decode(doc)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrDecode, err), "failed to decode schema", goerr.V("location", location))
	}
	return &form, nil
}
