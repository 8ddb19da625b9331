package wizard

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
)

// LoadResult carries the outcome of a schema fetch back to the controller.
type LoadResult struct {
	Ticket LoadTicket
	Schema *model.FormSchema
	Err    error
}

// Fetch runs the provider for ticket. It touches no controller state and is
// meant to run on a goroutine or as a tea.Cmd.
func Fetch(ctx context.Context, p provider.Provider, identity provider.Identity, ticket LoadTicket) LoadResult {
	schema, err := p.FetchSchema(ctx, identity)
	return LoadResult{Ticket: ticket, Schema: schema, Err: err}
}

// Apply delivers a fetch result through CompleteLoad.
func (c *Controller) Apply(result LoadResult) error {
	return c.CompleteLoad(result.Ticket, result.Schema, result.Err)
}
