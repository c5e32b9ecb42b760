// Package contract holds the wire contract of the external prediction service
// as an embedded OpenAPI document and checks the field table against it.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-riskform/pkg/model"
)

//go:embed predictor.yaml
var predictorDocument []byte

const (
	// PredictPath is the route the service scores requests on.
	PredictPath = "/api/risk"

	minExtension = "x-riskform-min"
	maxExtension = "x-riskform-max"
)

var (
	ErrOperationMissing = errors.New("contract: predict operation missing")
	ErrSchemaMissing    = errors.New("contract: request schema missing")
	ErrMismatch         = errors.New("contract: field table does not match contract")
)

// Raw returns the embedded document.
func Raw() []byte {
	out := make([]byte, len(predictorDocument))
	copy(out, predictorDocument)
	return out
}

// Contract is a parsed and validated predictor document.
type Contract struct {
	doc *openapi3.T
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return Parse(ctx, predictorDocument)
}

// Parse loads an arbitrary predictor document.
func Parse(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	return &Contract{doc: doc}, nil
}

// Title returns the document title.
func (c *Contract) Title() string {
	if c == nil || c.doc == nil || c.doc.Info == nil {
		return ""
	}
	return c.doc.Info.Title
}

// RequestFields returns the fields the request schema declares, sorted by
// key, with bounds read from the x-riskform-min/max extensions and labels
// from the property descriptions.
func (c *Contract) RequestFields() ([]model.FieldSpec, error) {
	schema, err := c.requestSchema()
	if err != nil {
		return nil, err
	}

	out := make([]model.FieldSpec, 0, len(schema.Properties))
	for name, property := range schema.Properties {
		if property == nil || property.Value == nil {
			return nil, fmt.Errorf("contract: property %q has no schema", name)
		}
		minimum, err := extensionFloat(property.Value.Extensions, minExtension)
		if err != nil {
			return nil, fmt.Errorf("contract: property %q: %w", name, err)
		}
		maximum, err := extensionFloat(property.Value.Extensions, maxExtension)
		if err != nil {
			return nil, fmt.Errorf("contract: property %q: %w", name, err)
		}
		out = append(out, model.FieldSpec{
			Key:   name,
			Min:   minimum,
			Max:   maximum,
			Label: property.Value.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Required returns the required request keys, sorted.
func (c *Contract) Required() ([]string, error) {
	schema, err := c.requestSchema()
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), schema.Required...)
	sort.Strings(out)
	return out, nil
}

// Check reports every difference between fields and the request schema.
func (c *Contract) Check(fields []model.FieldSpec) error {
	declared, err := c.RequestFields()
	if err != nil {
		return err
	}
	required, err := c.Required()
	if err != nil {
		return err
	}

	byKey := make(map[string]model.FieldSpec, len(declared))
	for _, spec := range declared {
		byKey[spec.Key] = spec
	}
	requiredSet := make(map[string]struct{}, len(required))
	for _, key := range required {
		requiredSet[key] = struct{}{}
	}

	var problems []error
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		seen[field.Key] = struct{}{}
		spec, ok := byKey[field.Key]
		if !ok {
			problems = append(problems, fmt.Errorf("%w: %q not declared", ErrMismatch, field.Key))
			continue
		}
		if spec.Min != field.Min || spec.Max != field.Max {
			problems = append(problems, fmt.Errorf("%w: %q bounds [%s, %s] != [%s, %s]", ErrMismatch, field.Key,
				model.FormatBound(field.Min), model.FormatBound(field.Max),
				model.FormatBound(spec.Min), model.FormatBound(spec.Max)))
		}
		if spec.Label != field.Label {
			problems = append(problems, fmt.Errorf("%w: %q label %q != %q", ErrMismatch, field.Key, field.Label, spec.Label))
		}
		if _, ok := requiredSet[field.Key]; !ok {
			problems = append(problems, fmt.Errorf("%w: %q not required", ErrMismatch, field.Key))
		}
	}
	for _, spec := range declared {
		if _, ok := seen[spec.Key]; !ok {
			problems = append(problems, fmt.Errorf("%w: %q declared but unknown", ErrMismatch, spec.Key))
		}
	}
	return errors.Join(problems...)
}

func (c *Contract) requestSchema() (*openapi3.Schema, error) {
	if c == nil || c.doc == nil || c.doc.Paths == nil {
		return nil, ErrOperationMissing
	}
	item, ok := c.doc.Paths.Map()[PredictPath]
	if !ok || item == nil || item.Post == nil {
		return nil, ErrOperationMissing
	}
	body := item.Post.RequestBody
	if body == nil || body.Value == nil {
		return nil, ErrSchemaMissing
	}
	media, ok := body.Value.Content["application/json"]
	if !ok || media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, ErrSchemaMissing
	}
	return media.Schema.Value, nil
}

// extensionFloat reads a numeric extension regardless of how the loader
// decoded it.
func extensionFloat(ext map[string]any, key string) (float64, error) {
	raw, ok := ext[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case json.RawMessage:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("%s: unsupported value %T", key, raw)
	}
}
