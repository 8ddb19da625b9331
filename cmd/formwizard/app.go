package main

import (
	"context"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/logging"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/server"
	"github.com/goliatone/go-formwizard/pkg/submit"
	"github.com/goliatone/go-formwizard/pkg/uischema"
)

// flagOverrides hold persistent flags; only flags the user set are applied.
type flagOverrides struct {
	baseURL   string
	submitURL string
	schema    string
	operation string
	overlay   string
	logLevel  string
	logFormat string
}

// app carries what every subcommand shares once setup has run.
type app struct {
	configPath string
	flags      flagOverrides

	cfg    *config.Config
	logger *zap.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	set := func(name string, target *string, value string) {
		if flags.Changed(name) {
			*target = strings.TrimSpace(value)
		}
	}
	set("api-url", &cfg.API.BaseURL, a.flags.baseURL)
	set("submit-url", &cfg.API.SubmitURL, a.flags.submitURL)
	set("schema", &cfg.Schema.Source, a.flags.schema)
	set("operation", &cfg.Schema.Operation, a.flags.operation)
	set("overlay", &cfg.Schema.Overlay, a.flags.overlay)
	set("log-level", &cfg.Log.Level, a.flags.logLevel)
	set("log-format", &cfg.Log.Format, a.flags.logFormat)

	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("api", cfg.API.BaseURL),
		zap.String("schema", cfg.Schema.Source),
	)
	return nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) loader() *schema.Loader {
	return schema.NewLoader(schema.LoaderOptions{
		AllowHTTPFallback: true,
		RequestTimeout:    a.cfg.API.Timeout,
	})
}

// schemaProvider picks the schema source and wraps it with the configured
// overlays. The API client is also returned as the authenticator; document
// sources need no login.
func (a *app) schemaProvider() (provider.Provider, server.Authenticator, error) {
	p, auth, err := a.baseProvider()
	if err != nil {
		return nil, nil, err
	}
	decorator, err := a.overlay()
	if err != nil {
		return nil, nil, err
	}
	if decorator != nil {
		p = provider.Decorate(p, decorator)
	}
	return p, auth, nil
}

// overlay loads schema.overlay, or returns nil when none is configured.
func (a *app) overlay() (model.Decorator, error) {
	path := strings.TrimSpace(a.cfg.Schema.Overlay)
	if path == "" {
		return nil, nil
	}
	store, err := uischema.Load(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load schema overlay", goerr.V("path", path))
	}
	a.logger.Debug("schema overlay loaded", zap.String("path", path), zap.Strings("forms", store.Forms()))
	return uischema.NewDecorator(store), nil
}

func (a *app) baseProvider() (provider.Provider, server.Authenticator, error) {
	location := strings.TrimSpace(a.cfg.Schema.Source)
	if location == "" {
		client, err := provider.NewClient(a.cfg.API.BaseURL,
			provider.WithTimeout(a.cfg.API.Timeout),
			provider.WithClientLogger(a.logger),
		)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}

	if op := strings.TrimSpace(a.cfg.Schema.Operation); op != "" {
		src, err := schema.ParseSource(location)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "invalid openapi source", goerr.V("source", location))
		}
		return provider.NewOpenAPIProvider(a.loader(), src, op), nil, nil
	}
	return provider.NewFileProvider(a.loader(), location), nil, nil
}

// sink posts to the configured submit URL or writes JSON to out.
func (a *app) sink(out io.Writer) (submit.Sink, error) {
	if url := strings.TrimSpace(a.cfg.API.SubmitURL); url != "" {
		return submit.NewHTTPSink(url, submit.WithLogger(a.logger))
	}
	return submit.NewWriterSink(out, true), nil
}

// identity completes the identity from prompts when the API needs one.
func (a *app) identity(ctx context.Context, driver tui.PromptDriver, given provider.Identity, required bool) (provider.Identity, error) {
	identity := provider.Identity{
		RollNumber: strings.TrimSpace(given.RollNumber),
		Name:       strings.TrimSpace(given.Name),
	}
	if !required {
		return identity, nil
	}
	if identity.RollNumber == "" {
		roll, err := driver.Input(ctx, tui.InputConfig{Message: "Roll Number"})
		if err != nil {
			return identity, err
		}
		identity.RollNumber = strings.TrimSpace(roll)
	}
	if identity.Name == "" {
		name, err := driver.Input(ctx, tui.InputConfig{Message: "Name"})
		if err != nil {
			return identity, err
		}
		identity.Name = strings.TrimSpace(name)
	}
	return identity, identity.Validate()
}

// login registers identity when the provider requires it.
func (a *app) login(ctx context.Context, auth server.Authenticator, identity provider.Identity) error {
	if auth == nil {
		return nil
	}
	if err := auth.Login(ctx, identity); err != nil {
		return goerr.Wrap(err, "login failed", goerr.V("rollNumber", identity.RollNumber))
	}
	a.logger.Info("logged in", zap.String("rollNumber", identity.RollNumber))
	return nil
}
