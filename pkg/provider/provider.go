package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Identity is the user a form is fetched for.
type Identity struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// Greeting renders the header line shown above the form, or "" when the
// identity is empty.
func (i Identity) Greeting() string {
	name := strings.TrimSpace(i.Name)
	roll := strings.TrimSpace(i.RollNumber)
	switch {
	case name == "" && roll == "":
		return ""
	case roll == "":
		return fmt.Sprintf("Welcome, %s", name)
	case name == "":
		return fmt.Sprintf("Roll Number: %s", roll)
	default:
		return fmt.Sprintf("Welcome, %s | Roll Number: %s", name, roll)
	}
}

// Validate reports whether the identity carries the fields a login needs.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.RollNumber) == "" {
		return goerr.Wrap(ErrInvalidIdentity, "roll number is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return goerr.Wrap(ErrInvalidIdentity, "name is required", goerr.V("rollNumber", i.RollNumber))
	}
	return nil
}

// Provider supplies the form schema for an identity.
type Provider interface {
	FetchSchema(ctx context.Context, identity Identity) (*model.FormSchema, error)
}

// Func adapts a function into a Provider.
type Func func(ctx context.Context, identity Identity) (*model.FormSchema, error)

// FetchSchema calls f.
func (f Func) FetchSchema(ctx context.Context, identity Identity) (*model.FormSchema, error) {
	return f(ctx, identity)
}

// Static always returns a copy of the same schema.
func Static(schema model.FormSchema) Provider {
	return Func(func(ctx context.Context, _ Identity) (*model.FormSchema, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clone := schema.Clone()
		return &clone, nil
	})
}

// Decorate wraps p so every fetched schema passes through decorators in
// order. A decorator failure is reported as a decode failure.
func Decorate(p Provider, decorators ...model.Decorator) Provider {
	if len(decorators) == 0 {
		return p
	}
	return Func(func(ctx context.Context, identity Identity) (*model.FormSchema, error) {
		form, err := p.FetchSchema(ctx, identity)
		if err != nil {
			return nil, err
		}
		for _, decorator := range decorators {
			if decorator == nil {
				continue
			}
			if err := decorator.Decorate(form); err != nil {
				return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrDecode, err), "schema decorator failed",
					goerr.V("formId", form.FormID))
			}
		}
		return form, nil
	})
}
