// Package formwizard is the quick-start entry point: it re-exports the core
// types and wires a provider, a controller and a renderer for callers that
// just want a rendered form.
package formwizard

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// FormSchema aliases model.FormSchema.
type FormSchema = model.FormSchema

// FormValues aliases model.FormValues.
type FormValues = model.FormValues

// Identity aliases provider.Identity.
type Identity = provider.Identity

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Renderer names registered by DefaultRenderers.
const (
	RendererHTML = "vanilla"
	RendererText = "text"
)

// NewController exposes the wizard constructor from the top-level module.
func NewController(options ...wizard.Option) *wizard.Controller {
	return wizard.New(options...)
}

// DefaultRenderers returns a registry holding the HTML and plain text
// renderers.
func DefaultRenderers(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(tui.NewTextRenderer(0)); err != nil {
		return nil, err
	}
	return registry, nil
}

// Render fetches the form for identity and renders its first section with
// the named renderer. An empty name selects RendererHTML. A failed fetch is
// rendered as the load failure screen and also returned.
func Render(ctx context.Context, p provider.Provider, identity Identity, rendererName string, options RenderOptions) ([]byte, error) {
	registry, err := DefaultRenderers()
	if err != nil {
		return nil, err
	}
	if rendererName == "" {
		rendererName = RendererHTML
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}

	ctrl := wizard.New(wizard.WithIdentity(identity))
	loadErr := ctrl.Load(ctx, p, identity)
	out, err := renderer.Render(ctx, ctrl.View(), options)
	if err != nil {
		return nil, err
	}
	return out, loadErr
}

// RenderSchema renders the first section of an in-memory schema.
func RenderSchema(ctx context.Context, form FormSchema, rendererName string, options RenderOptions) ([]byte, error) {
	return Render(ctx, provider.Static(form), Identity{}, rendererName, options)
}
