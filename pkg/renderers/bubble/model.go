// Package bubble hosts a wizard session in a full-screen bubbletea program.
// Every keystroke that changes a field is fed to the controller through
// SetField; the schema fetch runs as a tea.Cmd and is applied on the event
// loop.
package bubble

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const defaultWidth = 80

type loadedMsg struct {
	result wizard.LoadResult
}

// focusItem is one stop in the tab order: a field or a navigation button.
type focusItem struct {
	fieldID string
	kind    model.Kind
	action  render.Action
}

func (f focusItem) isField() bool { return f.fieldID != "" }

// Option configures a Model.
type Option func(*Model)

// WithStyles replaces the default palette.
func WithStyles(styles Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithWidth sets the initial layout width used until the terminal reports
// its size.
func WithWidth(width int) Option {
	return func(m *Model) {
		if width > 0 {
			m.width = width
		}
	}
}

// Model is the bubbletea model of one wizard session.
type Model struct {
	ctx      context.Context
	ctrl     *wizard.Controller
	provider provider.Provider
	styles   Styles
	help     help.Model
	spinner  spinner.Model
	logger   *zap.Logger

	view   render.WizardView
	notice *render.Notice
	items  []focusItem
	focus  int
	inputs map[string]textinput.Model
	areas  map[string]textarea.Model

	width   int
	aborted bool
}

var _ tea.Model = (*Model)(nil)

// New builds a model around ctrl. When ctrl is still Loading, Init fetches
// the schema from p for the controller's identity.
func New(ctx context.Context, ctrl *wizard.Controller, p provider.Provider, opts ...Option) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		provider: p,
		styles:   DefaultStyles(),
		help:     help.New(),
		spinner:  sp,
		logger:   zap.NewNop(),
		inputs:   make(map[string]textinput.Model),
		areas:    make(map[string]textarea.Model),
		width:    defaultWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.spinner.Style = m.styles.Focused
	m.rebuild()
	return m
}

// Init starts the schema fetch when one is needed.
func (m *Model) Init() tea.Cmd {
	if m.ctrl.State() != wizard.StateLoading {
		return m.focusCmd()
	}
	ticket, err := m.ctrl.BeginLoad()
	if err != nil {
		m.logger.Warn("cannot begin load", zap.Error(err))
		return nil
	}
	return tea.Batch(m.fetch(ticket), m.spinner.Tick)
}

func (m *Model) fetch(ticket wizard.LoadTicket) tea.Cmd {
	ctx, p, identity := m.ctx, m.provider, m.ctrl.Identity()
	return func() tea.Msg {
		if p == nil {
			return loadedMsg{result: wizard.LoadResult{Ticket: ticket, Err: errors.New("no schema provider configured")}}
		}
		return loadedMsg{result: wizard.Fetch(ctx, p, identity, ticket)}
	}
}

// Update handles terminal events and load results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.resizeAreas()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.State() != wizard.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if err := m.ctrl.Apply(msg.result); err != nil {
			if errors.Is(err, wizard.ErrLoadDiscarded) {
				return m, nil
			}
			m.logger.Warn("schema load failed", zap.Error(err))
		}
		m.rebuild()
		return m, m.focusCmd()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Abort) {
			return m.abort()
		}
		switch m.ctrl.State() {
		case wizard.StateLoadFailed:
			return m.updateLoadFailed(msg)
		case wizard.StateSubmitted:
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		case wizard.StateReady:
			return m.updateReady(msg)
		}
	}
	return m, nil
}

func (m *Model) abort() (tea.Model, tea.Cmd) {
	if m.ctrl.State() != wizard.StateSubmitted {
		m.aborted = true
	}
	m.ctrl.Close()
	return m, tea.Quit
}

func (m *Model) updateLoadFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Retry):
		ticket, err := m.ctrl.Retry()
		if err != nil {
			m.logger.Warn("retry rejected", zap.Error(err))
			return m, nil
		}
		m.rebuild()
		return m, tea.Batch(m.fetch(ticket), m.spinner.Tick)
	case msg.String() == "q":
		return m.abort()
	}
	return m, nil
}

func (m *Model) updateReady(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Advance):
		return m.runAction(m.view.Actions.Primary)
	case key.Matches(msg, keys.Previous):
		return m.runAction(render.ActionPrevious)
	}

	item, ok := m.focused()
	if !ok {
		return m, nil
	}

	// Textareas keep enter and arrows for editing; only tab moves on.
	if item.kind == model.KindTextarea && item.isField() {
		switch msg.String() {
		case "tab":
			return m, m.moveFocus(1)
		case "shift+tab":
			return m, m.moveFocus(-1)
		}
		return m, m.updateArea(item.fieldID, msg)
	}

	switch {
	case key.Matches(msg, keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, keys.Prev):
		return m, m.moveFocus(-1)
	}

	if !item.isField() {
		if key.Matches(msg, keys.Enter) {
			return m.runAction(item.action)
		}
		return m, nil
	}

	switch {
	case item.kind.TextLike():
		if key.Matches(msg, keys.Enter) {
			return m, m.moveFocus(1)
		}
		return m, m.updateInput(item.fieldID, msg)
	case item.kind.HasOptions():
		switch {
		case key.Matches(msg, keys.Left):
			m.cycleOption(item.fieldID, -1)
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Toggle):
			m.cycleOption(item.fieldID, 1)
		case key.Matches(msg, keys.Enter):
			return m, m.moveFocus(1)
		}
	case item.kind == model.KindCheckbox:
		switch {
		case key.Matches(msg, keys.Toggle):
			m.toggle(item.fieldID)
		case key.Matches(msg, keys.Enter):
			return m, m.moveFocus(1)
		}
	}
	return m, nil
}

func (m *Model) runAction(action render.Action) (tea.Model, tea.Cmd) {
	switch action {
	case render.ActionPrevious:
		if m.ctrl.Previous() {
			m.rebuild()
			return m, m.focusCmd()
		}
	case render.ActionNext:
		if m.ctrl.Next() {
			m.rebuild()
			return m, m.focusCmd()
		}
		m.refresh()
		return m, m.focusFirstError()
	case render.ActionSubmit:
		ok, err := m.ctrl.Submit(m.ctx)
		if err != nil {
			m.logger.Warn("submit failed", zap.Error(err))
		}
		m.refresh()
		if ok {
			m.blurAll()
			return m, nil
		}
		if err == nil {
			return m, m.focusFirstError()
		}
	}
	return m, nil
}

func (m *Model) setField(fieldID string, value any) {
	if err := m.ctrl.SetField(fieldID, value); err != nil {
		m.logger.Debug("set field rejected", zap.String("field", fieldID), zap.Error(err))
		return
	}
	m.refresh()
}

func (m *Model) updateInput(fieldID string, msg tea.Msg) tea.Cmd {
	input, ok := m.inputs[fieldID]
	if !ok {
		return nil
	}
	before := input.Value()
	input, cmd := input.Update(msg)
	m.inputs[fieldID] = input
	if input.Value() != before {
		m.setField(fieldID, input.Value())
	}
	return cmd
}

func (m *Model) updateArea(fieldID string, msg tea.Msg) tea.Cmd {
	area, ok := m.areas[fieldID]
	if !ok {
		return nil
	}
	before := area.Value()
	area, cmd := area.Update(msg)
	m.areas[fieldID] = area
	if area.Value() != before {
		m.setField(fieldID, area.Value())
	}
	return cmd
}

// cycleOption steps through the choices of a dropdown or radio field.
// Dropdowns include the unset placeholder in the cycle.
func (m *Model) cycleOption(fieldID string, delta int) {
	field, ok := m.fieldView(fieldID)
	if !ok || len(field.Options) == 0 {
		return
	}
	values := make([]string, 0, len(field.Options)+1)
	if field.Kind == model.KindDropdown {
		values = append(values, "")
	}
	for _, opt := range field.Options {
		values = append(values, opt.Value)
	}
	current := 0
	found := false
	for i, v := range values {
		if v == field.StringValue() {
			current, found = i, true
			break
		}
	}
	next := current + delta
	if !found {
		next = 0
		if delta < 0 {
			next = len(values) - 1
		}
	}
	next = (next%len(values) + len(values)) % len(values)
	m.setField(fieldID, values[next])
}

func (m *Model) toggle(fieldID string) {
	field, ok := m.fieldView(fieldID)
	if !ok {
		return
	}
	m.setField(fieldID, !field.Checked())
}

// refresh re-reads the view after a value or error change, keeping the
// widgets and the focus position.
func (m *Model) refresh() {
	m.view = m.ctrl.View()
	if n := m.ctrl.TakeNotice(); n != nil {
		m.notice = n
	}
}

// rebuild re-creates the widgets for the current section.
func (m *Model) rebuild() {
	m.view = m.ctrl.View()
	m.notice = m.ctrl.TakeNotice()
	m.items = m.items[:0]
	m.inputs = make(map[string]textinput.Model)
	m.areas = make(map[string]textarea.Model)
	m.focus = 0

	if m.view.Status != render.StatusReady {
		return
	}
	for _, field := range m.view.Fields {
		if !field.Supported {
			continue
		}
		m.items = append(m.items, focusItem{fieldID: field.ID, kind: field.Kind})
		switch {
		case field.Kind == model.KindTextarea:
			m.areas[field.ID] = m.newArea(field)
		case field.Kind.TextLike():
			m.inputs[field.ID] = newInput(field)
		}
	}
	if m.view.Actions.CanPrevious {
		m.items = append(m.items, focusItem{action: render.ActionPrevious})
	}
	m.items = append(m.items, focusItem{action: m.view.Actions.Primary})
}

func newInput(field render.FieldView) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = field.Placeholder
	if field.MaxLength > 0 {
		in.CharLimit = field.MaxLength
	}
	in.Width = 48
	in.SetValue(field.StringValue())
	return in
}

func (m *Model) newArea(field render.FieldView) textarea.Model {
	area := textarea.New()
	area.Placeholder = field.Placeholder
	area.ShowLineNumbers = false
	if field.MaxLength > 0 {
		area.CharLimit = field.MaxLength
	}
	area.SetHeight(4)
	area.SetWidth(m.areaWidth())
	area.SetValue(field.StringValue())
	return area
}

func (m *Model) areaWidth() int {
	if w := m.width - 8; w > 20 {
		return w
	}
	return 20
}

func (m *Model) resizeAreas() {
	for id, area := range m.areas {
		area.SetWidth(m.areaWidth())
		m.areas[id] = area
	}
}

func (m *Model) focused() (focusItem, bool) {
	if m.focus < 0 || m.focus >= len(m.items) {
		return focusItem{}, false
	}
	return m.items[m.focus], true
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}
	m.focus = (m.focus + delta + len(m.items)) % len(m.items)
	return m.focusCmd()
}

func (m *Model) focusFirstError() tea.Cmd {
	for i, item := range m.items {
		if field, ok := m.fieldView(item.fieldID); ok && field.HasError {
			m.focus = i
			break
		}
	}
	return m.focusCmd()
}

// focusCmd focuses the widget under the cursor and blurs the rest.
func (m *Model) focusCmd() tea.Cmd {
	m.blurAll()
	item, ok := m.focused()
	if !ok || !item.isField() {
		return nil
	}
	if in, ok := m.inputs[item.fieldID]; ok {
		cmd := in.Focus()
		m.inputs[item.fieldID] = in
		return cmd
	}
	if area, ok := m.areas[item.fieldID]; ok {
		cmd := area.Focus()
		m.areas[item.fieldID] = area
		return cmd
	}
	return nil
}

func (m *Model) blurAll() {
	for id, in := range m.inputs {
		in.Blur()
		m.inputs[id] = in
	}
	for id, area := range m.areas {
		area.Blur()
		m.areas[id] = area
	}
}

func (m *Model) fieldView(fieldID string) (render.FieldView, bool) {
	for _, field := range m.view.Fields {
		if field.ID == fieldID {
			return field, true
		}
	}
	return render.FieldView{}, false
}

// Aborted reports whether the user quit before submitting.
func (m *Model) Aborted() bool { return m.aborted }

// Controller returns the wizard driven by the model.
func (m *Model) Controller() *wizard.Controller { return m.ctrl }
