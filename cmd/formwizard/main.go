// Command formwizard runs dynamic form wizards in the browser or the
// terminal and lints form schema documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set during build with -ldflags
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "formwizard",
		Short: "Step-by-step wizards for server-described forms",
		Long: `formwizard fetches a multi-section form schema and walks a user through it
one section at a time, validating each section before moving on.

The schema comes from the form API by default. Point schema.source (or
--schema) at a JSON, YAML or TOML document, or at an OpenAPI document with
--operation, to serve forms without the API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.flags.baseURL, "api-url", "", "form API base URL")
	flags.StringVar(&a.flags.submitURL, "submit-url", "", "POST submissions to this URL instead of printing them")
	flags.StringVar(&a.flags.schema, "schema", "", "schema document path or URL; {rollNumber} is replaced per user")
	flags.StringVar(&a.flags.operation, "operation", "", "OpenAPI operation id when --schema is an OpenAPI document")
	flags.StringVar(&a.flags.overlay, "overlay", "", "file or directory of per-form schema overlays")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.flags.logFormat, "log-format", "", "log format (console or json)")

	root.AddCommand(
		newServeCommand(a),
		newPromptCommand(a),
		newTUICommand(a),
		newLintCommand(a),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the formwizard version",
		// the root pre-run loads config, which version does not need
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "formwizard version %s\n", version)
		},
	}
}
