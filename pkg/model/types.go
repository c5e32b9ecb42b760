package model

import internalmodel "github.com/goliatone/go-riskform/internal/model"

// FieldSpec re-exports the internal field descriptor.
type FieldSpec = internalmodel.FieldSpec

type FormValues = internalmodel.FormValues
type ErrorMap = internalmodel.ErrorMap
type RiskLevel = internalmodel.RiskLevel
type RiskResult = internalmodel.RiskResult

const (
	RiskLevelHigh = internalmodel.RiskLevelHigh
	RiskLevelLow  = internalmodel.RiskLevelLow
)

// Fields returns the clinical field table in display order.
func Fields() []FieldSpec { return internalmodel.Fields() }

// Keys returns the field keys in display order.
func Keys() []string { return internalmodel.Keys() }

// Lookup returns the spec registered for key.
func Lookup(key string) (FieldSpec, bool) { return internalmodel.Lookup(key) }

// Position returns the display index of key, or -1 when unknown.
func Position(key string) int { return internalmodel.Position(key) }

// NewFormValues returns a value set with every field present and empty.
func NewFormValues() FormValues { return internalmodel.NewFormValues() }

// FormValuesFrom builds a value set from a plain map, dropping unknown keys.
func FormValuesFrom(in map[string]string) FormValues { return internalmodel.FormValuesFrom(in) }

// RiskFromPrediction maps a raw prediction value onto a RiskResult.
func RiskFromPrediction(prediction float64) RiskResult {
	return internalmodel.RiskFromPrediction(prediction)
}

// FormatBound renders a range bound as its shortest decimal form.
func FormatBound(v float64) string { return internalmodel.FormatBound(v) }
