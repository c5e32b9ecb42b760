package form

import "github.com/goliatone/go-riskform/pkg/model"

// Action is a state transition applied by Reduce.
type Action interface {
	apply(State) State
}

// EditField records raw input for one field. Existing errors are kept until
// the next submit recomputes them.
type EditField struct {
	Key   string
	Value string
}

func (a EditField) apply(s State) State {
	s.Values = s.Values.With(a.Key, a.Value)
	return s
}

// Validated replaces the error map wholesale.
type Validated struct {
	Errors model.ErrorMap
}

func (a Validated) apply(s State) State {
	s.Errors = a.Errors.Clone()
	if s.Errors == nil {
		s.Errors = model.ErrorMap{}
	}
	return s
}

// SubmitSucceeded stores the latest result and clears any pending notice.
type SubmitSucceeded struct {
	Result model.RiskResult
}

func (a SubmitSucceeded) apply(s State) State {
	result := a.Result
	s.Result = &result
	s.Notice = NoticeNone
	return s
}

// SubmitRejected records that the service answered with a non-success status.
type SubmitRejected struct{}

func (SubmitRejected) apply(s State) State {
	s.Notice = NoticeCalculationError
	return s
}

// SubmitFailed records that the service could not be reached.
type SubmitFailed struct{}

func (SubmitFailed) apply(s State) State {
	s.Notice = NoticeSubmissionError
	return s
}

// DismissNotice acknowledges the pending notice.
type DismissNotice struct{}

func (DismissNotice) apply(s State) State {
	s.Notice = NoticeNone
	return s
}

// Reduce returns the state after action. The input is never mutated.
func Reduce(state State, action Action) State {
	next := state.Clone()
	if action == nil {
		return next
	}
	return action.apply(next)
}
