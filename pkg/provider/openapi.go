package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Extension keys recognised on OpenAPI schema properties.
const (
	ExtWidget      = "x-formwizard-widget"
	ExtPlaceholder = "x-formwizard-placeholder"
	ExtTestID      = "x-formwizard-testid"
	ExtMessage     = "x-formwizard-message"
	ExtOrder       = "x-formwizard-order"
)

const defaultSectionID = "main"

// OpenAPIProvider derives a form from the request body of an OpenAPI
// operation. Object-valued top-level properties become sections; scalar
// top-level properties are collected into a leading section.
type OpenAPIProvider struct {
	loader      *schema.Loader
	source      schema.Source
	operationID string
}

var _ Provider = (*OpenAPIProvider)(nil)

// NewOpenAPIProvider builds a provider for operationID in the document at
// src. An empty operationID selects the first POST operation by path.
func NewOpenAPIProvider(loader *schema.Loader, src schema.Source, operationID string) *OpenAPIProvider {
	return &OpenAPIProvider{loader: loader, source: src, operationID: operationID}
}

// FetchSchema loads the document and converts the operation body.
func (p *OpenAPIProvider) FetchSchema(ctx context.Context, _ Identity) (*model.FormSchema, error) {
	if p.loader == nil || p.source == nil {
		return nil, goerr.New("openapi provider is not configured")
	}
	doc, err := p.loader.Load(ctx, p.source)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrFetch, err), "failed to load openapi document",
			goerr.V("location", p.source.Location()))
	}
	form, err := FormFromOpenAPI(ctx, doc.Raw(), p.operationID)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// FormFromOpenAPI converts the JSON request body of an operation into a
// FormSchema.
func FormFromOpenAPI(ctx context.Context, raw []byte, operationID string) (model.FormSchema, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return model.FormSchema{}, goerr.Wrap(fmt.Errorf("%w: %w", ErrDecode, err), "invalid openapi document")
	}

	op, path := findOperation(spec, operationID)
	if op == nil {
		return model.FormSchema{}, goerr.Wrap(ErrOperationNotFound, "no matching operation",
			goerr.V("operationId", operationID))
	}
	body := requestSchema(op)
	if body == nil {
		return model.FormSchema{}, goerr.Wrap(ErrDecode, "operation has no request body schema",
			goerr.V("operationId", op.OperationID), goerr.V("path", path))
	}

	form := model.FormSchema{
		FormID: op.OperationID,
		Title:  firstNonEmpty(body.Title, op.Summary, op.OperationID),
	}
	if spec.Info != nil {
		form.Version = spec.Info.Version
	}

	root := model.Section{SectionID: defaultSectionID, Title: form.Title, Description: body.Description}
	var nested []model.Section
	required := requiredSet(body.Required)
	for _, name := range orderedProperties(body.Properties) {
		prop := body.Properties[name].Value
		if prop == nil {
			continue
		}
		if schemaType(prop) == openapi3.TypeObject {
			nested = append(nested, sectionFromSchema(name, prop))
			continue
		}
		root.Fields = append(root.Fields, fieldFromSchema(name, prop, required[name]))
	}

	if len(root.Fields) > 0 {
		form.Sections = append(form.Sections, root)
	}
	form.Sections = append(form.Sections, nested...)
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, string) {
	if spec.Paths == nil {
		return nil, ""
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		if operationID == "" {
			if item.Post != nil {
				return item.Post, path
			}
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op, path
			}
		}
	}
	return nil, ""
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	if mt, ok := content["application/json"]; ok && mt.Schema != nil {
		return mt.Schema.Value
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func sectionFromSchema(name string, src *openapi3.Schema) model.Section {
	section := model.Section{
		SectionID:   model.SectionID(name),
		Title:       firstNonEmpty(src.Title, humanize(name)),
		Description: src.Description,
	}
	required := requiredSet(src.Required)
	for _, prop := range orderedProperties(src.Properties) {
		value := src.Properties[prop].Value
		if value == nil {
			continue
		}
		section.Fields = append(section.Fields, fieldFromSchema(prop, value, required[prop]))
	}
	return section
}

func fieldFromSchema(name string, src *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		FieldID:     name,
		Type:        fieldType(src),
		Label:       firstNonEmpty(src.Title, humanize(name)),
		Placeholder: extString(src.Extensions, ExtPlaceholder),
		Required:    required,
		DataTestID:  extString(src.Extensions, ExtTestID),
	}
	if msg := extString(src.Extensions, ExtMessage); msg != "" {
		field.Validation = &model.FieldValidation{Message: msg}
	}
	if field.Placeholder == "" && src.Example != nil {
		field.Placeholder = fmt.Sprint(src.Example)
	}
	if field.Kind().HasOptions() {
		for _, value := range src.Enum {
			v := fmt.Sprint(value)
			field.Options = append(field.Options, model.Option{Value: v, Label: humanize(v)})
		}
	}
	if field.Kind().TextLike() {
		if src.MinLength > 0 {
			n := int(src.MinLength)
			field.MinLength = &n
		}
		if src.MaxLength != nil {
			n := int(*src.MaxLength)
			field.MaxLength = &n
		}
	}
	return field
}

func fieldType(src *openapi3.Schema) model.FieldType {
	if widget := extString(src.Extensions, ExtWidget); widget != "" {
		return model.FieldType(widget)
	}
	switch schemaType(src) {
	case openapi3.TypeBoolean:
		return model.FieldTypeCheckbox
	case openapi3.TypeString:
		if len(src.Enum) > 0 {
			return model.FieldTypeDropdown
		}
		switch src.Format {
		case "email":
			return model.FieldTypeEmail
		case "date":
			return model.FieldTypeDate
		}
		return model.FieldTypeText
	case openapi3.TypeInteger, openapi3.TypeNumber:
		if len(src.Enum) > 0 {
			return model.FieldTypeDropdown
		}
		return model.FieldTypeText
	case "":
		return model.FieldTypeText
	default:
		// Arrays and other shapes surface as unsupported fields.
		return model.FieldType(schemaType(src))
	}
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// orderedProperties sorts by the order extension, then by name.
func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) int {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 0
		}
		switch v := ref.Value.Extensions[ExtOrder].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
		return 0
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func requiredSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = true
	}
	return out
}

func extString(ext map[string]any, key string) string {
	if ext == nil {
		return ""
	}
	if s, ok := ext[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// humanize turns "first_name" or "firstName" into "First name".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return out
	}
	first := out[0]
	if first >= 'a' && first <= 'z' {
		return string(first-('a'-'A')) + out[1:]
	}
	return out
}
