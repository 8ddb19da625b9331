package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submit"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSink sets the collaborator that receives validated values on Submit.
// Without one, Submit still validates and transitions to Submitted.
func WithSink(sink submit.Sink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// WithIdentity sets the user identity shown in the view greeting.
func WithIdentity(identity provider.Identity) Option {
	return func(c *Controller) {
		c.identity = identity
	}
}

// Controller owns the state of one wizard session: the loaded schema, the
// current section index, collected values and the active error map.
//
// A Controller is not safe for concurrent use. Hosts serialise interactions
// on their event loop; the only asynchronous step, fetching the schema, runs
// outside the controller and is applied through CompleteLoad.
type Controller struct {
	state    State
	schema   model.FormSchema
	index    int
	values   model.FormValues
	errors   model.ErrorMap
	loadErr  error
	notice   *render.Notice
	ticket   LoadTicket
	closed   bool
	identity provider.Identity
	sink     submit.Sink
	result   model.FormValues
	logger   *zap.Logger
}

// New returns a controller in the Loading state.
func New(opts ...Option) *Controller {
	c := &Controller{
		state:  StateLoading,
		values: make(model.FormValues),
		errors: make(model.ErrorMap),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BeginLoad starts a schema load and returns the ticket its result must be
// delivered with. Any earlier outstanding load is superseded.
func (c *Controller) BeginLoad() (LoadTicket, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if c.state != StateLoading && c.state != StateLoadFailed {
		return 0, goerr.Wrap(ErrNotReady, "schema already loaded", goerr.V("state", c.state.String()))
	}
	c.ticket++
	c.state = StateLoading
	c.loadErr = nil
	c.notice = nil
	c.logger.Debug("schema load started", zap.Uint64("ticket", uint64(c.ticket)))
	return c.ticket, nil
}

// CompleteLoad applies the outcome of the load identified by ticket. Results
// for stale tickets or arriving after Close are dropped and ErrLoadDiscarded
// is returned. A fetch error, or a schema that fails structural checks, moves
// the controller to LoadFailed and is returned wrapped in ErrSchemaFetch.
func (c *Controller) CompleteLoad(ticket LoadTicket, schema *model.FormSchema, fetchErr error) error {
	if c.closed || ticket != c.ticket || c.state != StateLoading {
		c.logger.Debug("schema load discarded",
			zap.Uint64("ticket", uint64(ticket)),
			zap.Uint64("current", uint64(c.ticket)),
			zap.Bool("closed", c.closed),
		)
		return ErrLoadDiscarded
	}

	if fetchErr == nil && schema == nil {
		fetchErr = errors.New("provider returned no schema")
	}
	if fetchErr == nil {
		fetchErr = validation.CheckSchema(*schema)
	}
	if fetchErr != nil {
		c.state = StateLoadFailed
		c.loadErr = goerr.Wrap(fmt.Errorf("%w: %w", ErrSchemaFetch, fetchErr), "schema load failed", goerr.V("ticket", uint64(ticket)))
		c.notice = &render.Notice{Level: render.NoticeError, Message: LoadFailedMessage}
		c.logger.Warn("schema load failed", zap.Error(fetchErr))
		return c.loadErr
	}

	c.schema = schema.Clone()
	c.index = 0
	c.values = make(model.FormValues)
	c.errors = make(model.ErrorMap)
	c.state = StateReady
	c.logger.Debug("schema loaded",
		zap.String("form", c.schema.Title),
		zap.Int("sections", len(c.schema.Sections)),
	)
	return nil
}

// Load fetches the schema synchronously and applies it.
func (c *Controller) Load(ctx context.Context, p provider.Provider, identity provider.Identity) error {
	ticket, err := c.BeginLoad()
	if err != nil {
		return err
	}
	c.identity = identity
	schema, err := p.FetchSchema(ctx, identity)
	return c.CompleteLoad(ticket, schema, err)
}

// Retry re-enters Loading after a failed load. It only ever runs on explicit
// user request.
func (c *Controller) Retry() (LoadTicket, error) {
	if c.state != StateLoadFailed {
		return 0, goerr.Wrap(ErrNotReady, "nothing to retry", goerr.V("state", c.state.String()))
	}
	return c.BeginLoad()
}

// Close marks the hosting view as torn down. Later load results are
// discarded and interactions fail with ErrClosed.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.logger.Debug("wizard closed", zap.String("state", c.state.String()))
}

// SetField merges a value into the form values. If the field currently has
// an error, exactly that error is cleared; nothing is re-validated.
func (c *Controller) SetField(fieldID string, value any) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, ok := c.schema.FieldByID(fieldID); !ok {
		return goerr.Wrap(ErrUnknownField, "cannot set value", goerr.V("fieldId", fieldID))
	}
	c.values[fieldID] = value
	delete(c.errors, fieldID)
	return nil
}

// Previous moves back one section without validating and without touching
// the error map. It reports whether the index changed.
func (c *Controller) Previous() bool {
	if c.ready() != nil || c.index == 0 {
		return false
	}
	c.index--
	c.logger.Debug("moved to previous section", zap.Int("index", c.index))
	return true
}

// Next validates the current section, replaces the error map with the
// result, and advances when the section is valid and not the last one.
func (c *Controller) Next() bool {
	if c.ready() != nil {
		return false
	}
	if !c.validateCurrent() {
		return false
	}
	if c.index >= c.schema.LastIndex() {
		return false
	}
	c.index++
	c.logger.Debug("moved to next section", zap.Int("index", c.index))
	return true
}

// Submit validates the last section and, when valid, hands a copy of every
// collected value to the sink and moves to Submitted. It returns false with
// a nil error when validation fails. A sink failure is returned wrapped in
// ErrSubmit and leaves the controller on the last section.
func (c *Controller) Submit(ctx context.Context) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	if c.index != c.schema.LastIndex() {
		return false, goerr.Wrap(ErrNotLastSection, "cannot submit", goerr.V("index", c.index))
	}
	if !c.validateCurrent() {
		return false, nil
	}

	payload := c.values.Clone()
	if c.sink != nil {
		if err := c.sink.Submit(ctx, payload); err != nil {
			c.notice = &render.Notice{Level: render.NoticeError, Message: SubmitFailedMessage}
			c.logger.Warn("form submission failed", zap.Error(err))
			return false, goerr.Wrap(fmt.Errorf("%w: %w", ErrSubmit, err), "sink rejected values", goerr.V("form", c.schema.Title))
		}
	}

	c.result = payload
	c.values = make(model.FormValues)
	c.errors = make(model.ErrorMap)
	c.state = StateSubmitted
	c.notice = &render.Notice{Level: render.NoticeSuccess, Message: SubmittedMessage}
	c.logger.Info("form submitted", zap.String("form", c.schema.Title), zap.Int("values", len(payload)))
	return true, nil
}

// Advance triggers the primary action of the current section: Next before
// the last section, Submit on it.
func (c *Controller) Advance(ctx context.Context) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	if c.index < c.schema.LastIndex() {
		return c.Next(), nil
	}
	return c.Submit(ctx)
}

func (c *Controller) validateCurrent() bool {
	section, _ := c.schema.Section(c.index)
	errs, ok := validation.ValidateSection(section, c.values)
	c.errors = errs
	if !ok {
		c.logger.Debug("section invalid", zap.Int("index", c.index), zap.Int("errors", len(errs)))
	}
	return ok
}

func (c *Controller) ready() error {
	if c.closed {
		return ErrClosed
	}
	if c.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if c.state != StateReady {
		return goerr.Wrap(ErrNotReady, "interaction rejected", goerr.V("state", c.state.String()))
	}
	return nil
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Index returns the current section index.
func (c *Controller) Index() int { return c.index }

// Err returns the load failure while in LoadFailed.
func (c *Controller) Err() error { return c.loadErr }

// Identity returns the identity the schema was loaded for.
func (c *Controller) Identity() provider.Identity { return c.identity }

// Schema returns a copy of the loaded schema.
func (c *Controller) Schema() model.FormSchema { return c.schema.Clone() }

// Values returns a copy of the collected values.
func (c *Controller) Values() model.FormValues { return c.values.Clone() }

// Errors returns a copy of the active error map.
func (c *Controller) Errors() model.ErrorMap { return c.errors.Clone() }

// Result returns the values handed to the sink by a successful Submit.
func (c *Controller) Result() model.FormValues {
	if c.result == nil {
		return nil
	}
	return c.result.Clone()
}

// CurrentSection returns the section being shown.
func (c *Controller) CurrentSection() (model.Section, bool) {
	if c.state != StateReady {
		return model.Section{}, false
	}
	return c.schema.Section(c.index)
}

// TakeNotice returns the pending one-shot notice and clears it.
func (c *Controller) TakeNotice() *render.Notice {
	n := c.notice
	c.notice = nil
	return n
}

// View composes the current screen for a renderer. The pending notice is
// included but not consumed.
func (c *Controller) View() render.WizardView {
	view := render.WizardView{
		Status:    c.state.Status(),
		FormTitle: c.schema.Title,
		Greeting:  c.identity.Greeting(),
		Index:     c.index,
		Notice:    c.notice,
	}
	if c.state == StateLoading || c.state == StateLoadFailed {
		return view
	}
	view.Progress = render.BuildProgress(c.schema, c.index)
	if c.state != StateReady {
		return view
	}
	section, _ := c.schema.Section(c.index)
	view.SectionID = section.SectionID
	view.SectionTitle = section.Title
	view.Description = section.Description
	view.Fields = render.ComposeSection(section, c.values, c.errors)
	view.Actions = render.BuildActions(c.index, c.schema.LastIndex())
	return view
}
