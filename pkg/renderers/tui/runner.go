// Package tui drives a wizard session through line-oriented terminal
// prompts and renders wizard screens as plain text.
package tui

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Labels of the prompt-only actions.
const (
	QuitLabel  = "Quit"
	RetryLabel = "Try again"
)

// Runner walks a wizard.Controller section by section: it prints the
// screen, prompts every field, feeds answers to SetField and then asks for
// the navigation action.
type Runner struct {
	driver   PromptDriver
	theme    Theme
	out      io.Writer
	text     *TextRenderer
	provider provider.Provider
	logger   *zap.Logger
}

// New constructs a Runner. Without WithPromptDriver it prompts through
// survey on the process terminal.
func New(p provider.Provider, options ...Option) *Runner {
	r := &Runner{
		theme:    DefaultTheme,
		text:     NewTextRenderer(0),
		provider: p,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out, r.theme)
	}
	return r
}

// Run loads the schema when needed and loops until the form is submitted,
// returning the submitted values. Ctrl+C or the Quit action ends the loop
// with ErrAborted.
func (r *Runner) Run(ctx context.Context, c *wizard.Controller) (model.FormValues, error) {
	if c == nil {
		return nil, errors.New("tui: controller is nil")
	}
	if c.State() == wizard.StateLoading {
		if err := r.load(ctx, c); err != nil && !errors.Is(err, wizard.ErrSchemaFetch) {
			return nil, err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch c.State() {
		case wizard.StateSubmitted:
			if err := r.showScreen(ctx, c); err != nil {
				return nil, err
			}
			c.TakeNotice()
			return c.Result(), nil
		case wizard.StateLoadFailed:
			if err := r.retryLoad(ctx, c); err != nil {
				return nil, err
			}
		case wizard.StateReady:
			if err := r.step(ctx, c); err != nil {
				return nil, err
			}
		default:
			return nil, goerr.Wrap(wizard.ErrNotReady, "tui: unexpected wizard state", goerr.V("state", c.State().String()))
		}
	}
}

func (r *Runner) load(ctx context.Context, c *wizard.Controller) error {
	if r.provider == nil {
		return ErrNoProvider
	}
	return c.Load(ctx, r.provider, c.Identity())
}

// retryLoad reports the load failure and retries once the user asks to.
func (r *Runner) retryLoad(ctx context.Context, c *wizard.Controller) error {
	if err := r.showScreen(ctx, c); err != nil {
		return err
	}
	c.TakeNotice()
	r.logger.Warn("schema load failed", zap.Error(c.Err()))

	retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: RetryLabel + "?", Default: true})
	if err != nil {
		return err
	}
	if !retry {
		return ErrAborted
	}
	if r.provider == nil {
		return ErrNoProvider
	}
	ticket, err := c.Retry()
	if err != nil {
		return err
	}
	err = c.Apply(wizard.Fetch(ctx, r.provider, c.Identity(), ticket))
	if err != nil && !errors.Is(err, wizard.ErrSchemaFetch) {
		return err
	}
	return nil
}

// step handles one pass over the current section.
func (r *Runner) step(ctx context.Context, c *wizard.Controller) error {
	if err := r.showScreen(ctx, c); err != nil {
		return err
	}
	c.TakeNotice()

	view := c.View()
	for _, field := range view.Fields {
		if err := r.promptField(ctx, c, field); err != nil {
			return err
		}
	}

	action, err := r.askAction(ctx, c.View().Actions)
	if err != nil {
		return err
	}
	switch action {
	case render.ActionPrevious:
		c.Previous()
	case render.ActionNext:
		if !c.Next() {
			r.logger.Debug("section has errors", zap.Int("index", c.Index()))
		}
	case render.ActionSubmit:
		if _, err := c.Submit(ctx); err != nil {
			if !errors.Is(err, wizard.ErrSubmit) {
				return err
			}
			r.logger.Warn("submission failed", zap.Error(err))
		}
	}
	return nil
}

func (r *Runner) showScreen(ctx context.Context, c *wizard.Controller) error {
	out, err := r.text.Render(ctx, c.View(), render.RenderOptions{})
	if err != nil {
		return err
	}
	return r.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}

func (r *Runner) promptField(ctx context.Context, c *wizard.Controller, field render.FieldView) error {
	if field.HasError {
		if err := r.driver.Info(ctx, r.prefixed(r.theme.ErrorPrefix, FieldLabel(field)+": "+field.Error)); err != nil {
			return err
		}
	}

	var (
		value any
		err   error
	)
	switch field.Kind {
	case model.KindText, model.KindTel, model.KindEmail, model.KindDate:
		value, err = r.driver.Input(ctx, InputConfig{
			Message: FieldLabel(field),
			Default: field.StringValue(),
			Help:    fieldHelp(field),
		})
	case model.KindTextarea:
		value, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: FieldLabel(field),
			Default: field.StringValue(),
			Help:    fieldHelp(field),
		})
	case model.KindDropdown, model.KindRadio:
		value, err = r.promptChoice(ctx, field)
	case model.KindCheckbox:
		value, err = r.driver.Confirm(ctx, ConfirmConfig{
			Message: FieldLabel(field),
			Default: field.Checked(),
		})
	default:
		return r.driver.Info(ctx, r.prefixed(r.theme.InfoPrefix, FieldLabel(field)+": "+render.UnsupportedMessage))
	}
	if err != nil {
		return err
	}
	if sameValue(field.Value, value) {
		return nil
	}
	return c.SetField(field.ID, value)
}

// promptChoice offers the options in schema order. Dropdowns lead with
// their placeholder, which maps back to the empty value.
func (r *Runner) promptChoice(ctx context.Context, field render.FieldView) (string, error) {
	labels := make([]string, 0, len(field.Options)+1)
	values := make([]string, 0, len(field.Options)+1)
	if field.Kind == model.KindDropdown {
		labels = append(labels, field.Placeholder)
		values = append(values, "")
	}
	selected := -1
	for _, opt := range field.Options {
		if opt.Selected {
			selected = len(labels)
		}
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}
	if selected < 0 && field.Kind == model.KindDropdown {
		selected = 0
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      FieldLabel(field),
		Options:      labels,
		DefaultIndex: selected,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(values) {
		return field.StringValue(), nil
	}
	return values[idx], nil
}

func (r *Runner) askAction(ctx context.Context, actions render.ActionsView) (render.Action, error) {
	var (
		labels  []string
		choices []render.Action
	)
	labels = append(labels, actions.PrimaryLabel)
	choices = append(choices, actions.Primary)
	if actions.CanPrevious {
		labels = append(labels, render.PreviousLabel)
		choices = append(choices, render.ActionPrevious)
	}
	labels = append(labels, QuitLabel)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue",
		Options:      labels,
		DefaultIndex: 0,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return "", ErrAborted
	}
	return choices[idx], nil
}

func (r *Runner) prefixed(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return prefix + " " + msg
}

func fieldHelp(field render.FieldView) string {
	var parts []string
	if field.Placeholder != "" {
		parts = append(parts, "e.g. "+field.Placeholder)
	}
	if field.MinLength > 0 {
		parts = append(parts, "min "+strconv.Itoa(field.MinLength)+" characters")
	}
	if field.MaxLength > 0 {
		parts = append(parts, "max "+strconv.Itoa(field.MaxLength)+" characters")
	}
	return strings.Join(parts, ", ")
}

func sameValue(current, next any) bool {
	switch c := current.(type) {
	case string:
		n, ok := next.(string)
		return ok && c == n
	case bool:
		n, ok := next.(bool)
		return ok && c == n
	default:
		return false
	}
}
