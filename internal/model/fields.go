package model

// fieldTable is the fixed, display-ordered set of clinical inputs.
var fieldTable = []FieldSpec{
	{Key: "age", Min: 1, Max: 120, Label: "Age (1-120)"},
	{Key: "sex", Min: 0, Max: 1, Label: "Sex (0: Female, 1: Male)"},
	{Key: "cp", Min: 0, Max: 3, Label: "Chest Pain Type (0-3)"},
	{Key: "trestbps", Min: 90, Max: 200, Label: "Resting Blood Pressure (90-200 mmHg)"},
	{Key: "chol", Min: 100, Max: 600, Label: "Cholesterol (100-600 mg/dL)"},
	{Key: "fbs", Min: 0, Max: 1, Label: "Fasting Blood Sugar (0: <120mg/dL, 1: >120mg/dL)"},
	{Key: "restecg", Min: 0, Max: 2, Label: "Resting ECG (0-2)"},
	{Key: "thalach", Min: 60, Max: 220, Label: "Max Heart Rate (60-220 bpm)"},
	{Key: "exang", Min: 0, Max: 1, Label: "Exercise-induced Angina (0: No, 1: Yes)"},
	{Key: "oldpeak", Min: 0, Max: 6, Label: "ST Depression (0-6)"},
	{Key: "slope", Min: 0, Max: 2, Label: "Slope of ST Segment (0-2)"},
	{Key: "ca", Min: 0, Max: 4, Label: "Major Vessels (0-4)"},
	{Key: "thal", Min: 0, Max: 3, Label: "Thalassemia (0-3)"},
}

var fieldIndex = func() map[string]int {
	out := make(map[string]int, len(fieldTable))
	for i, field := range fieldTable {
		out[field.Key] = i
	}
	return out
}()

// Fields returns a copy of the field table in display order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fieldTable))
	copy(out, fieldTable)
	return out
}

// Keys returns the field keys in display order.
func Keys() []string {
	out := make([]string, len(fieldTable))
	for i, field := range fieldTable {
		out[i] = field.Key
	}
	return out
}

// Lookup returns the spec for key.
func Lookup(key string) (FieldSpec, bool) {
	idx, ok := fieldIndex[key]
	if !ok {
		return FieldSpec{}, false
	}
	return fieldTable[idx], true
}

// Position returns the display index of key, or -1 when unknown.
func Position(key string) int {
	idx, ok := fieldIndex[key]
	if !ok {
		return -1
	}
	return idx
}
