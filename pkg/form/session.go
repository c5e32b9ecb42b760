package form

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/validation"
)

// ErrInvalid is returned by Submit when any field fails validation. No call to
// the prediction service is made in that case.
var ErrInvalid = errors.New("form: invalid input")

// Predictor scores a complete set of values.
type Predictor interface {
	Predict(ctx context.Context, values model.FormValues) (model.RiskResult, error)
}

// Validator recomputes the full error map for values.
type Validator func(model.FormValues) model.ErrorMap

// Observer is notified about submissions. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveSubmission(kind OutcomeKind)
	ObserveValidationFailure(field string)
}

// OutcomeKind classifies a Submit call.
type OutcomeKind string

const (
	OutcomeInvalid   OutcomeKind = "invalid"
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeFailed    OutcomeKind = "failed"
)

// Outcome describes what a Submit call did.
type Outcome struct {
	Kind   OutcomeKind
	Errors model.ErrorMap
	Result *model.RiskResult
	Notice Notice
	// Err is the prediction error for rejected and failed outcomes.
	Err error
}

// Session owns one form's state. The lock guards state only; it is released
// while the prediction call is in flight, so edits and further submits are
// never blocked by the network. Overlapping submits are neither merged nor
// cancelled and the last response to arrive wins.
type Session struct {
	mu    sync.Mutex
	state State

	predictor Predictor
	validate  Validator
	logger    *zap.Logger
	observer  Observer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithValidator replaces the default range validator.
func WithValidator(v Validator) SessionOption {
	return func(s *Session) {
		if v != nil {
			s.validate = v
		}
	}
}

// WithSessionLogger attaches a logger.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionObserver registers a submission observer.
func WithSessionObserver(observer Observer) SessionOption {
	return func(s *Session) {
		s.observer = observer
	}
}

// NewSession returns a session in the initial state.
func NewSession(predictor Predictor, options ...SessionOption) *Session {
	s := &Session{
		state:     NewState(),
		predictor: predictor,
		validate:  validation.Validate,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action and returns the resulting state.
func (s *Session) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state.Clone()
}

// Edit records raw input for key. Unknown keys are ignored.
func (s *Session) Edit(key, value string) State {
	return s.Dispatch(EditField{Key: key, Value: value})
}

// Dismiss acknowledges the pending notice.
func (s *Session) Dismiss() State {
	return s.Dispatch(DismissNotice{})
}

// Submit validates the current values and, when every field passes, posts
// them to the predictor exactly once. Prediction failures are reported in the
// Outcome and the state's Notice; the returned error is ErrInvalid or nil.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	values := s.state.Values.Clone()
	errs := s.validate(values)
	s.state = Reduce(s.state, Validated{Errors: errs})
	s.mu.Unlock()

	if !errs.Empty() {
		s.recordInvalid(errs)
		return Outcome{Kind: OutcomeInvalid, Errors: errs.Clone()}, ErrInvalid
	}

	if s.predictor == nil {
		return s.finish(Outcome{Kind: OutcomeFailed, Err: predict.ErrEndpointMissing}, SubmitFailed{}), nil
	}

	result, err := s.predictor.Predict(ctx, values)
	switch {
	case err == nil:
		r := result
		return s.finish(Outcome{Kind: OutcomeSucceeded, Result: &r}, SubmitSucceeded{Result: result}), nil
	case errors.Is(err, predict.ErrRequestRejected):
		s.logger.Warn("risk calculation rejected", zap.Error(err))
		return s.finish(Outcome{Kind: OutcomeRejected, Err: err}, SubmitRejected{}), nil
	default:
		s.logger.Warn("form submission failed", zap.Error(err))
		return s.finish(Outcome{Kind: OutcomeFailed, Err: err}, SubmitFailed{}), nil
	}
}

func (s *Session) finish(outcome Outcome, action Action) Outcome {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	outcome.Notice = s.state.Notice
	outcome.Errors = s.state.Errors.Clone()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveSubmission(outcome.Kind)
	}
	return outcome
}

func (s *Session) recordInvalid(errs model.ErrorMap) {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return model.Position(keys[i]) < model.Position(keys[j])
	})
	s.logger.Debug("submission blocked by validation", zap.Strings("fields", keys))

	if s.observer == nil {
		return
	}
	s.observer.ObserveSubmission(OutcomeInvalid)
	for _, key := range keys {
		s.observer.ObserveValidationFailure(key)
	}
}
