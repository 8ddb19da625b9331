// Package config loads the formwizard configuration: a YAML file merged over
// defaults, then FORMWIZARD_* environment overrides. Command-line flags are
// applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/provider"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMWIZARD_"

// ErrInvalid marks a configuration that fails Validate.
var ErrInvalid = goerr.New("invalid configuration")

// Config is the root configuration document.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Schema SchemaConfig `yaml:"schema"`
	Theme  ThemeConfig  `yaml:"theme"`
}

// APIConfig points at the form API.
type APIConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
	// SubmitURL receives completed forms as JSON. Empty prints them instead.
	SubmitURL string `yaml:"submitURL"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// SchemaConfig overrides where the form schema comes from. An empty Source
// uses the API; a path or URL reads a schema document, with
// "{rollNumber}" replaced per user. Operation selects an OpenAPI operation
// when Source is an OpenAPI document. Overlay names a file or directory of
// per-form overlays applied to every fetched schema.
type SchemaConfig struct {
	Source    string `yaml:"source"`
	Operation string `yaml:"operation"`
	Overlay   string `yaml:"overlay"`
}

// ThemeConfig names an optional go-theme manifest for the HTML host.
type ThemeConfig struct {
	Manifest string `yaml:"manifest"`
	Variant  string `yaml:"variant"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: provider.DefaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, goerr.Wrap(err, "failed to parse config", goerr.V("path", path))
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies FORMWIZARD_* variables.
func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"API_BASE_URL":     &c.API.BaseURL,
		"API_SUBMIT_URL":   &c.API.SubmitURL,
		"LOG_LEVEL":        &c.Log.Level,
		"LOG_FORMAT":       &c.Log.Format,
		"SERVER_ADDR":      &c.Server.Addr,
		"SCHEMA_SOURCE":    &c.Schema.Source,
		"SCHEMA_OPERATION": &c.Schema.Operation,
		"SCHEMA_OVERLAY":   &c.Schema.Overlay,
		"THEME_MANIFEST":   &c.Theme.Manifest,
		"THEME_VARIANT":    &c.Theme.Variant,
	}
	for name, target := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*target = strings.TrimSpace(v)
		}
	}

	durations := map[string]*time.Duration{
		"API_TIMEOUT":      &c.API.Timeout,
		"SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
	}
	for name, target := range durations {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return goerr.Wrap(err, "invalid duration override", goerr.V("env", EnvPrefix+name), goerr.V("value", v))
		}
		*target = d
	}
	return nil
}

// Validate reports settings no command can run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Schema.Source == "" && strings.TrimSpace(c.API.BaseURL) == "" {
		problems = append(problems, "api.baseURL is required when schema.source is empty")
	}
	if c.API.Timeout < 0 {
		problems = append(problems, "api.timeout must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		problems = append(problems, "server.shutdownTimeout must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}
	if len(problems) > 0 {
		return goerr.Wrap(ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
