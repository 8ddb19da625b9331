package formwizard

import (
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// NewLoader constructs a schema document loader.
func NewLoader(options schema.LoaderOptions) *schema.Loader {
	return schema.NewLoader(options)
}

// NewFileProvider serves forms from a document path or URL. HTTP locations
// are fetched with a default client.
func NewFileProvider(location string) *provider.FileProvider {
	return provider.NewFileProvider(schema.NewLoader(schema.LoaderOptions{AllowHTTPFallback: true}), location)
}

// NewAPIProvider returns a client for the form API at baseURL; an empty
// baseURL selects provider.DefaultBaseURL.
func NewAPIProvider(baseURL string, options ...provider.ClientOption) (*provider.Client, error) {
	return provider.NewClient(baseURL, options...)
}
