package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/renderers/bubble"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type identityFlags struct {
	rollNumber string
	name       string
}

func (f *identityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rollNumber, "roll-number", "", "roll number to fetch the form for")
	cmd.Flags().StringVar(&f.name, "name", "", "name shown in the greeting")
}

func (f *identityFlags) identity() provider.Identity {
	return provider.Identity{RollNumber: f.rollNumber, Name: f.name}
}

// session is a provider with a logged-in identity, ready for a controller.
type session struct {
	provider provider.Provider
	identity provider.Identity
}

func (a *app) startSession(ctx context.Context, driver tui.PromptDriver, given provider.Identity) (session, error) {
	p, auth, err := a.schemaProvider()
	if err != nil {
		return session{}, err
	}
	required := auth != nil || strings.Contains(a.cfg.Schema.Source, provider.RollNumberPlaceholder)
	identity, err := a.identity(ctx, driver, given, required)
	if err != nil {
		return session{}, err
	}
	if err := a.login(ctx, auth, identity); err != nil {
		return session{}, err
	}
	return session{provider: p, identity: identity}, nil
}

func newPromptCommand(a *app) *cobra.Command {
	var id identityFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the form with line prompts",
		Long: `Walks through the form one question at a time. Each section is printed,
its fields are asked in order and a final menu moves to the next section,
back to the previous one, or submits on the last.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			driver := tui.NewSurveyDriver(out, tui.DefaultTheme)

			sess, err := a.startSession(ctx, driver, id.identity())
			if err != nil {
				return err
			}
			sink, err := a.sink(out)
			if err != nil {
				return err
			}
			ctrl := wizard.New(
				wizard.WithLogger(a.logger),
				wizard.WithSink(sink),
				wizard.WithIdentity(sess.identity),
			)
			runner := tui.New(sess.provider,
				tui.WithPromptDriver(driver),
				tui.WithOutput(out),
				tui.WithLogger(a.logger),
			)
			if _, err := runner.Run(ctx, ctrl); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
					return nil
				}
				return err
			}
			return nil
		},
	}
	id.register(cmd)
	return cmd
}

func newTUICommand(a *app) *cobra.Command {
	var id identityFlags
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Fill in the form in a full-screen terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sess, err := a.startSession(ctx, tui.NewSurveyDriver(out, tui.DefaultTheme), id.identity())
			if err != nil {
				return err
			}

			// The alternate screen owns the terminal, so values are written
			// after the program exits unless they go to a submit URL.
			opts := []wizard.Option{wizard.WithIdentity(sess.identity)}
			if a.cfg.API.SubmitURL != "" {
				sink, err := a.sink(out)
				if err != nil {
					return err
				}
				opts = append(opts, wizard.WithSink(sink))
			}
			ctrl := wizard.New(opts...)

			values, err := bubble.Run(ctx, ctrl, sess.provider, []bubble.Option{bubble.WithLogger(a.logger)})
			if err != nil {
				if errors.Is(err, bubble.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
					return nil
				}
				return err
			}
			a.logger.Info("form submitted", zap.Int("values", len(values)))
			if a.cfg.API.SubmitURL != "" {
				return nil
			}
			sink, err := a.sink(out)
			if err != nil {
				return err
			}
			return sink.Submit(ctx, values)
		},
	}
	id.register(cmd)
	return cmd
}
