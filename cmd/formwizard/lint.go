package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// ErrLintFailed is returned when any linted schema has errors, or warnings
// under --strict.
var ErrLintFailed = goerr.New("schema lint failed")

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel  = color.New(color.FgYellow).SprintFunc()
	okLabel    = color.New(color.FgGreen).SprintFunc()
	pathLabel  = color.New(color.Bold).SprintFunc()
)

func newLintCommand(a *app) *cobra.Command {
	var (
		strict     bool
		rollNumber string
	)
	cmd := &cobra.Command{
		Use:   "lint [schema...]",
		Short: "Check form schema documents for structural problems",
		Long: `Loads each schema document (JSON, YAML or TOML; OpenAPI with --operation)
and reports problems the wizard cannot run with, such as duplicate ids or a
form without sections, plus warnings for content it renders anyway, such as
unsupported field types or choice fields without options.

Without arguments the configured schema.source is linted. Configured
overlays are applied first, so overlays naming unknown fields fail here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations := args
			if len(locations) == 0 && a.cfg.Schema.Source != "" {
				locations = []string{a.cfg.Schema.Source}
			}
			if len(locations) == 0 {
				return goerr.New("no schema to lint; pass a path or set schema.source")
			}

			decorator, err := a.overlay()
			if err != nil {
				return err
			}
			identity := provider.Identity{RollNumber: rollNumber}
			out := cmd.OutOrStdout()
			failed := 0
			for _, location := range locations {
				p := a.lintProvider(location)
				if decorator != nil {
					p = provider.Decorate(p, decorator)
				}
				form, err := p.FetchSchema(cmd.Context(), identity)
				if err != nil {
					fmt.Fprintf(out, "%s: %s %v\n", pathLabel(location), errorLabel("error"), err)
					failed++
					continue
				}
				result := validation.ValidateSchema(*form)
				if !printLint(out, location, *form, result, strict) {
					failed++
				}
			}
			if failed > 0 {
				return goerr.Wrap(ErrLintFailed, fmt.Sprintf("%d of %d schemas failed", failed, len(locations)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	cmd.Flags().StringVar(&rollNumber, "roll-number", "", "value substituted for {rollNumber} in locations")
	return cmd
}

func (a *app) lintProvider(location string) provider.Provider {
	if a.cfg.Schema.Operation != "" {
		src, err := schema.ParseSource(location)
		if err == nil {
			return provider.NewOpenAPIProvider(a.loader(), src, a.cfg.Schema.Operation)
		}
	}
	return provider.NewFileProvider(a.loader(), location)
}

// printLint writes one report and reports whether the schema passed.
func printLint(out io.Writer, location string, form model.FormSchema, result validation.SchemaValidationResult, strict bool) bool {
	if len(result.Issues) == 0 {
		fields := 0
		for _, section := range form.Sections {
			fields += len(section.Fields)
		}
		fmt.Fprintf(out, "%s: %s (%d sections, %d fields)\n", pathLabel(location), okLabel("ok"), len(form.Sections), fields)
		return true
	}

	fmt.Fprintf(out, "%s:\n", pathLabel(location))
	for _, issue := range result.Issues {
		label := warnLabel("warning")
		if issue.Severity == validation.SeverityError {
			label = errorLabel("error")
		}
		if issue.Path != "" {
			fmt.Fprintf(out, "  %s %s: %s\n", label, issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "  %s %s\n", label, issue.Message)
		}
	}
	return result.Valid && !strict
}
