package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldSpec describes one clinical input: its payload key, the inclusive
// numeric range it accepts, and the label shown next to the control.
type FieldSpec struct {
	Key   string  `json:"key" yaml:"key"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Label string  `json:"label" yaml:"label"`
}

// Placeholder returns the hint rendered inside an empty control.
func (f FieldSpec) Placeholder() string {
	return "Enter " + f.Label
}

// RangeMessage is the single message reported for any value the field rejects.
func (f FieldSpec) RangeMessage() string {
	return "Value must be between " + FormatBound(f.Min) + " and " + FormatBound(f.Max)
}

// FormatBound renders a bound using the shortest decimal representation so
// integral limits print as "120" rather than "120.000000".
func FormatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormValues holds the raw, unvalidated input for every known field. The key
// set is fixed at construction; unknown keys are ignored by Set.
type FormValues struct {
	values map[string]string
}

// NewFormValues returns values with every field initialised to "".
func NewFormValues() FormValues {
	values := make(map[string]string, len(fieldTable))
	for _, field := range fieldTable {
		values[field.Key] = ""
	}
	return FormValues{values: values}
}

// FormValuesFrom builds values from a plain map, dropping unknown keys.
func FormValuesFrom(in map[string]string) FormValues {
	out := NewFormValues()
	for key, value := range in {
		out.Set(key, value)
	}
	return out
}

// Get returns the raw input for key.
func (v FormValues) Get(key string) string {
	return v.values[key]
}

// Set stores raw input for a known key and reports whether the key exists.
func (v FormValues) Set(key, raw string) bool {
	if v.values == nil {
		return false
	}
	if _, ok := v.values[key]; !ok {
		return false
	}
	v.values[key] = raw
	return true
}

// With returns a copy with key set to raw.
func (v FormValues) With(key, raw string) FormValues {
	out := v.Clone()
	out.Set(key, raw)
	return out
}

// Clone returns an independent copy. The zero FormValues clones into a fully
// keyed, empty value set.
func (v FormValues) Clone() FormValues {
	out := NewFormValues()
	for key, value := range v.values {
		out.Set(key, value)
	}
	return out
}

// Map returns a copy of the underlying key/value pairs.
func (v FormValues) Map() map[string]string {
	src := v.values
	if src == nil {
		src = NewFormValues().values
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

// Len reports the number of keys.
func (v FormValues) Len() int {
	return len(v.values)
}

// MarshalJSON encodes every key with its raw string value.
func (v FormValues) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

// UnmarshalJSON accepts an object keyed by field. String values are kept
// verbatim, numbers keep their literal text, and unknown keys are dropped so
// the key set stays fixed.
func (v *FormValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewFormValues()
	for key, msg := range raw {
		out.Set(key, rawText(msg))
	}
	*v = out
	return nil
}

func rawText(msg json.RawMessage) string {
	trimmed := strings.TrimSpace(string(msg))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return trimmed
}

// ErrorMap maps a field key to its validation message. Only failing fields are
// present.
type ErrorMap map[string]string

// Empty reports whether no field failed.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Clone returns an independent copy; nil stays nil.
func (m ErrorMap) Clone() ErrorMap {
	if m == nil {
		return nil
	}
	out := make(ErrorMap, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

// RiskLevel is the binary classification returned by the prediction service.
type RiskLevel string

const (
	RiskLevelHigh RiskLevel = "high"
	RiskLevelLow  RiskLevel = "low"
)

// RiskResult is the outcome of a successful prediction round trip. A nil
// *RiskResult means no submission has succeeded yet.
type RiskResult struct {
	Level RiskLevel `json:"level"`
}

// RiskFromPrediction maps the service's prediction value onto a result:
// exactly 1 is high, any other number is low.
func RiskFromPrediction(prediction float64) RiskResult {
	if prediction == 1 {
		return RiskResult{Level: RiskLevelHigh}
	}
	return RiskResult{Level: RiskLevelLow}
}

// Display returns the upper-cased level used by the result banner.
func (r RiskResult) Display() string {
	return strings.ToUpper(string(r.Level))
}

// High reports whether the result is the high risk level.
func (r RiskResult) High() bool {
	return r.Level == RiskLevelHigh
}
