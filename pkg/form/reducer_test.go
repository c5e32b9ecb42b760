package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/model"
)

func TestReduce_DoesNotMutateInput(t *testing.T) {
	start := NewState()
	start.Errors["age"] = "Value must be between 1 and 120"

	next := Reduce(start, EditField{Key: "age", Value: "45"})
	next = Reduce(next, Validated{Errors: model.ErrorMap{}})

	if start.Values.Get("age") != "" {
		t.Fatalf("input values mutated: %q", start.Values.Get("age"))
	}
	if start.Errors["age"] == "" {
		t.Fatalf("input errors mutated")
	}
	if next.Values.Get("age") != "45" || !next.Errors.Empty() {
		t.Fatalf("unexpected next state %+v", next)
	}
}

func TestReduce_EditKeepsErrorsUntilRevalidated(t *testing.T) {
	state := Reduce(NewState(), Validated{Errors: model.ErrorMap{"chol": "Value must be between 100 and 600"}})
	state = Reduce(state, EditField{Key: "chol", Value: "250"})

	if state.FieldError("chol") == "" {
		t.Fatalf("edit should not clear the stale error")
	}
}

func TestReduce_EditUnknownKeyIgnored(t *testing.T) {
	state := Reduce(NewState(), EditField{Key: "weight", Value: "80"})
	if state.Values.Len() != 13 {
		t.Fatalf("expected 13 keys, got %d", state.Values.Len())
	}
	if state.Values.Get("weight") != "" {
		t.Fatalf("unknown key stored")
	}
}

func TestReduce_OutcomesAndNotices(t *testing.T) {
	high := model.RiskResult{Level: model.RiskLevelHigh}
	low := model.RiskResult{Level: model.RiskLevelLow}

	state := Reduce(NewState(), SubmitSucceeded{Result: high})
	if state.Result == nil || state.Result.Level != model.RiskLevelHigh {
		t.Fatalf("expected high result, got %+v", state.Result)
	}

	state = Reduce(state, SubmitRejected{})
	if state.Notice != NoticeCalculationError {
		t.Fatalf("expected calculation notice, got %q", state.Notice)
	}
	if state.Result == nil || state.Result.Level != model.RiskLevelHigh {
		t.Fatalf("rejection must leave the previous result, got %+v", state.Result)
	}

	state = Reduce(state, SubmitFailed{})
	if state.Notice != NoticeSubmissionError {
		t.Fatalf("expected submission notice, got %q", state.Notice)
	}

	state = Reduce(state, SubmitSucceeded{Result: low})
	if state.Notice.Pending() {
		t.Fatalf("success should clear the notice, got %q", state.Notice)
	}
	if diff := cmp.Diff(&low, state.Result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	state = Reduce(Reduce(state, SubmitFailed{}), DismissNotice{})
	if state.Notice.Pending() {
		t.Fatalf("dismiss should clear the notice")
	}
}

func TestNotice_Text(t *testing.T) {
	if string(NoticeCalculationError) != "Error calculating risk" {
		t.Fatalf("unexpected text %q", NoticeCalculationError)
	}
	if string(NoticeSubmissionError) != "Error submitting the form" {
		t.Fatalf("unexpected text %q", NoticeSubmissionError)
	}
}
