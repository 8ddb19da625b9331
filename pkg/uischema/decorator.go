package uischema

import (
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Decorator applies a store's overlays to fetched schemas.
type Decorator struct {
	store *Store
}

var _ model.Decorator = (*Decorator)(nil)

// NewDecorator returns a decorator backed by store.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate applies the overlay matching form.FormID. Overlays naming
// sections or fields the form lacks are rejected so typos surface as a
// failed load instead of silently doing nothing.
func (d *Decorator) Decorate(form *model.FormSchema) error {
	if d == nil || form == nil {
		return nil
	}
	overlay, ok := d.store.Form(form.FormID)
	if !ok {
		return nil
	}

	if overlay.Title != "" {
		form.Title = overlay.Title
	}

	matchedSections := make(map[string]bool, len(overlay.Sections))
	matchedFields := make(map[string]bool, len(overlay.Fields))

	for si := range form.Sections {
		section := &form.Sections[si]
		if cfg, ok := overlay.Sections[string(section.SectionID)]; ok {
			matchedSections[string(section.SectionID)] = true
			if cfg.Title != "" {
				section.Title = cfg.Title
			}
			if cfg.Description != "" {
				section.Description = cfg.Description
			}
			fields, err := reorder(section.Fields, cfg.FieldOrder)
			if err != nil {
				return fmt.Errorf("uischema: form %q (file %s) section %q: %w", overlay.ID, overlay.Source, section.SectionID, err)
			}
			section.Fields = fields
		}

		for fi := range section.Fields {
			field := &section.Fields[fi]
			cfg, ok := overlay.Fields[field.FieldID]
			if !ok {
				continue
			}
			matchedFields[field.FieldID] = true
			applyField(field, cfg)
		}
	}

	// the wildcard overlay tolerates forms that lack some of its entries
	if overlay.ID == WildcardForm {
		return nil
	}
	for id := range overlay.Sections {
		if !matchedSections[id] {
			return fmt.Errorf("uischema: form %q (file %s) references unknown section %q", overlay.ID, overlay.Source, id)
		}
	}
	for id := range overlay.Fields {
		if !matchedFields[id] {
			return fmt.Errorf("uischema: form %q (file %s) references unknown field %q", overlay.ID, overlay.Source, id)
		}
	}
	return nil
}

func applyField(field *model.Field, cfg FieldOverlay) {
	if cfg.Label != "" {
		field.Label = cfg.Label
	}
	if cfg.Placeholder != "" {
		field.Placeholder = cfg.Placeholder
	}
	if cfg.DataTestID != "" {
		field.DataTestID = cfg.DataTestID
	}
	if cfg.Message != "" {
		field.Validation = &model.FieldValidation{Message: cfg.Message}
	}
	if cfg.Required != nil {
		field.Required = *cfg.Required
	}
}

func reorder(fields []model.Field, order []string) ([]model.Field, error) {
	if len(order) == 0 {
		return fields, nil
	}
	byID := make(map[string]int, len(fields))
	for i, field := range fields {
		byID[field.FieldID] = i
	}
	out := make([]model.Field, 0, len(fields))
	placed := make(map[int]bool, len(order))
	for _, id := range order {
		idx, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("fieldOrder references unknown field %q", id)
		}
		out = append(out, fields[idx])
		placed[idx] = true
	}
	for i, field := range fields {
		if !placed[i] {
			out = append(out, field)
		}
	}
	return out, nil
}
