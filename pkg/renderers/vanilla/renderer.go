package vanilla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/pongo"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla/components"
)

const (
	pageTemplate  = "templates/page.tmpl"
	loginTemplate = "templates/login.tmpl"
)

// LoginLabel is the caption of the login button.
const LoginLabel = "Login"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	engine           template.Engine
	registry         *components.Registry
	inlineStylesheet bool
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateEngine injects a custom engine.
func WithTemplateEngine(engine template.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithComponentRegistry overrides the per-kind component renderers.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry.Clone()
		}
	}
}

// WithInlineStylesheet toggles embedding the default stylesheet in the page.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStylesheet = enabled
	}
}

// WithStylesheets links additional stylesheets from the page head.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		cfg.stylesheets = append(cfg.stylesheets, hrefs...)
	}
}

// Renderer draws the wizard as a server-rendered HTML page. Navigation
// buttons post the section back with an "action" of previous, next, submit,
// retry or restart.
type Renderer struct {
	engine      template.Engine
	registry    *components.Registry
	stylesheet  string
	stylesheets []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStylesheet: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.engine
	if engine == nil {
		built, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure templates: %w", err)
		}
		engine = built
	}
	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	r := &Renderer{engine: engine, registry: registry, stylesheets: cfg.stylesheets}
	if cfg.inlineStylesheet {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full page for view.
func (r *Renderer) Render(ctx context.Context, view render.WizardView, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var partials map[string]string
	if options.Theme != nil {
		partials = options.Theme.Partials
	}
	fields := newComponentRenderer(r.engine, r.registry, partials)
	markup := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		html, err := fields.render(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup = append(markup, html)
	}

	viewData, err := toMap(view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: encode view: %w", err)
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	stylesheets = append(stylesheets, fields.stylesheets()...)
	if href := themeStylesheet(options.Theme); href != "" {
		stylesheets = append(stylesheets, href)
	}

	data := map[string]any{
		"view":           viewData,
		"fields":         markup,
		"description":    sanitizeDescription(view.Description),
		"notice":         noticeData(view.Notice),
		"classes":        chromeClasses(),
		"actionURL":      options.ActionURL,
		"hiddenFields":   hiddenData(options.Hidden),
		"stylesheet":     r.stylesheet,
		"stylesheets":    stylesheets,
		"theme":          themeData(options.Theme),
		"progressLabel":  view.Progress.Label(),
		"previousLabel":  render.PreviousLabel,
		"previousTestId": render.PreviousTestID,
	}

	var buf bytes.Buffer
	if err := r.engine.Render(&buf, pageTemplate, data); err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return buf.Bytes(), nil
}

// LoginView is the identity form shown before a wizard session exists.
type LoginView struct {
	Title      string
	ActionURL  string
	RollNumber string
	Name       string
	Error      string
	Hidden     map[string]string
}

// RenderLogin draws the identity form. Values are echoed back so a failed
// attempt keeps what the user typed.
func (r *Renderer) RenderLogin(ctx context.Context, view LoginView, th *theme.RendererConfig) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title := view.Title
	if title == "" {
		title = "Sign in"
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	if href := themeStylesheet(th); href != "" {
		stylesheets = append(stylesheets, href)
	}

	data := map[string]any{
		"title":        title,
		"actionURL":    view.ActionURL,
		"rollNumber":   view.RollNumber,
		"name":         view.Name,
		"error":        view.Error,
		"hiddenFields": hiddenData(view.Hidden),
		"classes":      chromeClasses(),
		"stylesheet":   r.stylesheet,
		"stylesheets":  stylesheets,
		"theme":        themeData(th),
		"submitLabel":  LoginLabel,
	}

	var buf bytes.Buffer
	if err := r.engine.Render(&buf, loginTemplate, data); err != nil {
		return nil, fmt.Errorf("vanilla renderer: render login: %w", err)
	}
	return buf.Bytes(), nil
}

func noticeData(notice *render.Notice) map[string]any {
	if notice == nil {
		return nil
	}
	return map[string]any{"level": string(notice.Level), "message": notice.Message}
}

func hiddenData(hidden map[string]string) []map[string]any {
	sorted := render.SortedHiddenFields(hidden)
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func themeData(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"cssVars": cssVarsStyle(cfg.CSSVars),
	}
}

// themeStylesheet resolves the theme's "stylesheet" asset, if any.
func themeStylesheet(cfg *theme.RendererConfig) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return cfg.AssetURL("stylesheet")
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
