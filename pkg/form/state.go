package form

import "github.com/goliatone/go-riskform/pkg/model"

// Notice is a blocking, user-facing failure message. The zero value means
// nothing is pending.
type Notice string

const (
	NoticeNone             Notice = ""
	NoticeCalculationError Notice = "Error calculating risk"
	NoticeSubmissionError  Notice = "Error submitting the form"
)

// Pending reports whether a notice needs acknowledging.
func (n Notice) Pending() bool {
	return n != NoticeNone
}

// State is everything the page shows. Values always carries every field key;
// Errors only the failing ones; Result stays nil until a submission succeeds.
type State struct {
	Values model.FormValues
	Errors model.ErrorMap
	Result *model.RiskResult
	Notice Notice
}

// NewState returns the initial state: every field empty, no errors, no result.
func NewState() State {
	return State{
		Values: model.NewFormValues(),
		Errors: model.ErrorMap{},
	}
}

// Clone returns a deep copy so callers can hold a snapshot while the session
// keeps changing.
func (s State) Clone() State {
	out := State{
		Values: s.Values.Clone(),
		Errors: s.Errors.Clone(),
		Notice: s.Notice,
	}
	if out.Errors == nil {
		out.Errors = model.ErrorMap{}
	}
	if s.Result != nil {
		result := *s.Result
		out.Result = &result
	}
	return out
}

// FieldError returns the message for key, or "".
func (s State) FieldError(key string) string {
	return s.Errors[key]
}
