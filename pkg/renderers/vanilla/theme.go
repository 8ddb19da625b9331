package vanilla

import (
	"fmt"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla/components"
)

type themeAssets struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type themeVariant struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    themeAssets       `yaml:"assets"`
}

type themeFile struct {
	Name      string                  `yaml:"name"`
	Version   string                  `yaml:"version"`
	Tokens    map[string]string       `yaml:"tokens"`
	Templates map[string]string       `yaml:"templates"`
	Assets    themeAssets             `yaml:"assets"`
	Variants  map[string]themeVariant `yaml:"variants"`
}

// ParseThemeManifest decodes a YAML theme manifest and registers it with a
// go-theme registry to validate it.
func ParseThemeManifest(data []byte) (*theme.Manifest, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("vanilla theme: decode manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, fmt.Errorf("vanilla theme: manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:      file.Name,
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, v := range file.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}

	if err := theme.NewRegistry().Register(manifest); err != nil {
		return nil, fmt.Errorf("vanilla theme: invalid manifest %q: %w", file.Name, err)
	}
	return manifest, nil
}

// LoadTheme reads a manifest from path and resolves variant.
func LoadTheme(path, variant string) (*theme.RendererConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vanilla theme: read %s: %w", path, err)
	}
	manifest, err := ParseThemeManifest(data)
	if err != nil {
		return nil, err
	}
	return ThemeConfig(&theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest})
}

// ThemeConfig flattens a selection into renderer configuration: variant
// tokens, templates and asset files override the base manifest, partials
// fall back to the built-in component templates, and every token becomes a
// CSS custom property.
func ThemeConfig(selection *theme.Selection) (*theme.RendererConfig, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("vanilla theme: selection has no manifest")
	}
	manifest := selection.Manifest

	tokens := mergeStrings(nil, manifest.Tokens)
	partials := mergeStrings(components.DefaultPartials(), manifest.Templates)
	files := mergeStrings(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if name := strings.TrimSpace(selection.Variant); name != "" {
		variant, ok := manifest.Variants[name]
		if !ok {
			return nil, fmt.Errorf("vanilla theme: %s has no variant %q", manifest.Name, name)
		}
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		cssVars[key] = value
	}

	themeName := selection.Theme
	if themeName == "" {
		themeName = manifest.Name
	}
	return &theme.RendererConfig{
		Theme:    themeName,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		if strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	return out
}

// cssVarsStyle renders custom properties in key order.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		value := strings.NewReplacer(";", "", "{", "", "}", "", "<", "").Replace(vars[key])
		fmt.Fprintf(&b, "%s: %s;", key, value)
	}
	return b.String()
}
