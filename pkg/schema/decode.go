package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// envelope matches the API response shape ({"form": {...}}). Documents may
// also hold the form object at the top level.
type envelope struct {
	Form *model.FormSchema `json:"form" yaml:"form" toml:"form"`
}

// Decode parses a document into a FormSchema according to its format.
func Decode(doc Document) (model.FormSchema, error) {
	raw := doc.Raw()
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.FormSchema{}, fmt.Errorf("schema: %s: document is empty", doc.Location())
	}

	var unmarshal func([]byte, any) error
	switch doc.Format() {
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	case FormatTOML:
		unmarshal = toml.Unmarshal
	case FormatJSON, "":
		unmarshal = json.Unmarshal
	default:
		return model.FormSchema{}, fmt.Errorf("schema: %s: unsupported format %q", doc.Location(), doc.Format())
	}

	var wrapped envelope
	if err := unmarshal(raw, &wrapped); err != nil {
		return model.FormSchema{}, fmt.Errorf("schema: decode %s %s: %w", doc.Format(), doc.Location(), err)
	}
	if wrapped.Form != nil {
		return *wrapped.Form, nil
	}

	var form model.FormSchema
	if err := unmarshal(raw, &form); err != nil {
		return model.FormSchema{}, fmt.Errorf("schema: decode %s %s: %w", doc.Format(), doc.Location(), err)
	}
	return form, nil
}
