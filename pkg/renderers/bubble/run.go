package bubble

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// ErrAborted is returned by Run when the user quits before submitting.
var ErrAborted = goerr.New("bubble: aborted")

// Run starts a full-screen program for ctrl and blocks until the user
// submits or quits. Extra program options (input, output) are passed to
// tea.NewProgram after the defaults.
func Run(ctx context.Context, ctrl *wizard.Controller, p provider.Provider, opts []Option, programOpts ...tea.ProgramOption) (model.FormValues, error) {
	m := New(ctx, ctrl, p, opts...)
	options := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, programOpts...)

	final, err := tea.NewProgram(m, options...).Run()
	if err != nil {
		return nil, goerr.Wrap(err, "bubble: program failed")
	}
	done, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("bubble: unexpected final model %T", final)
	}
	if done.Controller().State() != wizard.StateSubmitted {
		return nil, ErrAborted
	}
	return done.Controller().Result(), nil
}
