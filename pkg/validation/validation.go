package validation

import (
	"errors"
	"sort"

	"github.com/goliatone/go-riskform/pkg/model"
)

// ErrUnknownField is returned by ValidateField for keys outside the field table.
var ErrUnknownField = errors.New("validation: unknown field")

// Issue is a single field failure prepared for JSON payloads.
type Issue struct {
	Field   string `json:"field"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

// Result captures the outcome of a validation pass for API responses.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// FieldError reports a single rejected value. Its message is the generic range
// message regardless of whether the input was malformed or out of range.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Validate checks every field and returns the failures. The map is built fresh
// on each call so earlier failures never linger for fields that are now valid.
// Non-numeric input and out-of-range values share one message.
func Validate(values model.FormValues) model.ErrorMap {
	errs := model.ErrorMap{}
	for _, spec := range model.Fields() {
		if !accepts(spec, values.Get(spec.Key)) {
			errs[spec.Key] = spec.RangeMessage()
		}
	}
	return errs
}

// ValidateField checks one raw value against its field spec. It returns nil
// when the value is accepted and a *FieldError otherwise.
func ValidateField(key, raw string) error {
	spec, ok := model.Lookup(key)
	if !ok {
		return ErrUnknownField
	}
	if accepts(spec, raw) {
		return nil
	}
	return &FieldError{Field: key, Message: spec.RangeMessage()}
}

// Valid reports whether values pass every field check.
func Valid(values model.FormValues) bool {
	return Validate(values).Empty()
}

// Issues lists failures in field display order.
func Issues(errs model.ErrorMap) []Issue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(errs))
	for key, message := range errs {
		issue := Issue{Field: key, Message: message}
		if spec, ok := model.Lookup(key); ok {
			issue.Label = spec.Label
		}
		out = append(out, issue)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := model.Position(out[i].Field), model.Position(out[j].Field)
		if pi != pj {
			return pi < pj
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Check runs Validate and packages the outcome.
func Check(values model.FormValues) Result {
	errs := Validate(values)
	return Result{Valid: errs.Empty(), Issues: Issues(errs)}
}

func accepts(spec model.FieldSpec, raw string) bool {
	value, ok := ParseNumber(raw)
	if !ok {
		return false
	}
	return value >= spec.Min && value <= spec.Max
}
