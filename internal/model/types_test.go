package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewFormValuesHasEveryKeyEmpty(t *testing.T) {
	values := NewFormValues()
	if values.Len() != len(fieldTable) {
		t.Fatalf("expected %d keys, got %d", len(fieldTable), values.Len())
	}
	for _, key := range Keys() {
		if got := values.Get(key); got != "" {
			t.Fatalf("expected %q to start empty, got %q", key, got)
		}
	}
}

func TestFormValuesSetIgnoresUnknownKeys(t *testing.T) {
	values := NewFormValues()
	if values.Set("pulse", "80") {
		t.Fatalf("expected unknown key to be rejected")
	}
	if !values.Set("age", "45") {
		t.Fatalf("expected known key to be accepted")
	}
	if values.Len() != 13 {
		t.Fatalf("key set changed: %d", values.Len())
	}
}

func TestFormValuesWithDoesNotMutateReceiver(t *testing.T) {
	base := NewFormValues()
	next := base.With("chol", "250")

	if base.Get("chol") != "" {
		t.Fatalf("receiver mutated: %q", base.Get("chol"))
	}
	if next.Get("chol") != "250" {
		t.Fatalf("expected copy to carry value, got %q", next.Get("chol"))
	}
}

func TestFormValuesJSONCarriesExactlyThirteenStringKeys(t *testing.T) {
	values := NewFormValues().With("age", "45").With("oldpeak", "1.5")

	payload, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 13 {
		t.Fatalf("expected 13 keys, got %d: %v", len(decoded), decoded)
	}
	for key, value := range decoded {
		if _, ok := value.(string); !ok {
			t.Fatalf("expected %q to encode as string, got %T", key, value)
		}
	}
	if decoded["oldpeak"] != "1.5" {
		t.Fatalf("unexpected oldpeak: %v", decoded["oldpeak"])
	}
}

func TestFormValuesUnmarshalAcceptsNumbersAndDropsUnknown(t *testing.T) {
	var values FormValues
	if err := json.Unmarshal([]byte(`{"age": 45, "sex": "1", "oldpeak": 1.50, "bogus": "x", "ca": null}`), &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := NewFormValues().Map()
	want["age"] = "45"
	want["sex"] = "1"
	want["oldpeak"] = "1.50"

	if diff := cmp.Diff(want, values.Map()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRiskFromPrediction(t *testing.T) {
	cases := []struct {
		prediction float64
		want       RiskLevel
	}{
		{1, RiskLevelHigh},
		{0, RiskLevelLow},
		{2, RiskLevelLow},
		{-1, RiskLevelLow},
		{0.999, RiskLevelLow},
	}
	for _, tc := range cases {
		if got := RiskFromPrediction(tc.prediction).Level; got != tc.want {
			t.Fatalf("prediction %v: want %s, got %s", tc.prediction, tc.want, got)
		}
	}
	if got := RiskFromPrediction(1).Display(); got != "HIGH" {
		t.Fatalf("unexpected display: %q", got)
	}
}

func TestRangeMessageFormatsBounds(t *testing.T) {
	spec, ok := Lookup("oldpeak")
	if !ok {
		t.Fatalf("oldpeak missing")
	}
	if got := spec.RangeMessage(); got != "Value must be between 0 and 6" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := spec.Placeholder(); got != "Enter ST Depression (0-6)" {
		t.Fatalf("unexpected placeholder: %q", got)
	}
}

func TestFieldsReturnsCopy(t *testing.T) {
	fields := Fields()
	fields[0].Max = 1

	spec, _ := Lookup("age")
	if spec.Max != 120 {
		t.Fatalf("field table mutated through copy")
	}
	if Position("thal") != 12 || Position("nope") != -1 {
		t.Fatalf("unexpected positions")
	}
}
