package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/validation"
)

const resultLead = "Based on your health data, here are personalized recommendations:"

// Renderer collects the clinical fields over a terminal prompt and prints the
// outcome. As a render.Renderer it produces a plain-text summary of a page.
type Renderer struct {
	driver PromptDriver
	out    io.Writer
	theme  Theme
	repeat bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey unless a driver is supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{theme: DefaultTheme()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints every field with its value and error, followed by the result
// banner or pending notice.
func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, row := range page.Rows() {
		value := row.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", r.theme.Label.Render(row.Spec.Label), value)
		if row.Error != "" {
			fmt.Fprintf(&b, "  %s\n", r.theme.Error.Render(row.Error))
		}
	}
	if summary := r.summary(page.Result, page.Notice); summary != "" {
		b.WriteString("\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// Run prompts for every field in display order, submits through session and
// prints the banner or notice. With WithRepeat the flow starts over until the
// user declines. The last outcome is returned.
func (r *Renderer) Run(ctx context.Context, session *form.Session) (form.Outcome, error) {
	if ctx == nil {
		return form.Outcome{}, errors.New("tui: context is required")
	}
	if session == nil {
		return form.Outcome{}, ErrNoSession
	}

	for {
		if err := r.collect(ctx, session); err != nil {
			return form.Outcome{}, err
		}

		outcome, err := session.Submit(ctx)
		if err != nil && !errors.Is(err, form.ErrInvalid) {
			return outcome, err
		}

		if outcome.Kind == form.OutcomeInvalid {
			for _, issue := range validation.Issues(outcome.Errors) {
				if infoErr := r.driver.Info(ctx, r.theme.Error.Render(issue.Label+": "+issue.Message)); infoErr != nil {
					return outcome, infoErr
				}
			}
		} else if summary := r.summary(outcome.Result, outcome.Notice); summary != "" {
			if infoErr := r.driver.Info(ctx, summary); infoErr != nil {
				return outcome, infoErr
			}
		}
		if outcome.Notice.Pending() {
			session.Dismiss()
		}

		if !r.repeat {
			return outcome, nil
		}
		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Assess another patient?", Default: false})
		if err != nil {
			return outcome, err
		}
		if !again {
			return outcome, nil
		}
	}
}

func (r *Renderer) collect(ctx context.Context, session *form.Session) error {
	current := session.Snapshot()
	for _, spec := range model.Fields() {
		key := spec.Key
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: spec.Label,
			Default: current.Values.Get(key),
			Help:    spec.Placeholder() + ". " + spec.RangeMessage() + ".",
			Validator: func(raw string) error {
				return validation.ValidateField(key, raw)
			},
		})
		if err != nil {
			return err
		}
		session.Edit(key, strings.TrimSpace(answer))
	}
	return nil
}

func (r *Renderer) summary(result *model.RiskResult, notice form.Notice) string {
	if notice.Pending() {
		return r.theme.Notice.Render(string(notice))
	}
	if result == nil {
		return ""
	}
	style := r.theme.Low
	if result.High() {
		style = r.theme.High
	}
	return style.Render("Risk Level: "+result.Display()) + "\n" + resultLead
}
