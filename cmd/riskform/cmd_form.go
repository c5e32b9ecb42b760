package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/internal/contract"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
	"github.com/goliatone/go-riskform/pkg/validation"
)

var promptRepeat bool

// promptCmd collects the fields interactively
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill in the form in the terminal",
	RunE:  runPrompt,
}

func init() {
	promptCmd.Flags().BoolVar(&promptRepeat, "repeat", false, "offer to assess another patient after each result")
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	app, err := riskform.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	_, err = app.Prompt(cmd.Context(),
		tui.WithOutput(cmd.OutOrStdout()),
		tui.WithRepeat(promptRepeat),
	)
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}

var (
	validateValues = map[string]*string{}
	validateSubmit bool
	validateJSON   bool
)

// validateCmd checks values passed as flags
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate field values and optionally submit them",
	Long: `Each field is a flag named after its key, for example:

  riskform validate --age=45 --sex=1 --cp=2 --trestbps=130 --chol=250 \
    --fbs=0 --restecg=1 --thalach=150 --exang=0 --oldpeak=1.5 --slope=1 \
    --ca=0 --thal=2 --submit`,
	RunE: runValidate,
}

func init() {
	for _, spec := range model.Fields() {
		validateValues[spec.Key] = validateCmd.Flags().String(spec.Key, "", spec.Label)
	}
	validateCmd.Flags().BoolVar(&validateSubmit, "submit", false, "send valid values to the prediction service")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the result as JSON")
}

func flagValues() model.FormValues {
	values := model.NewFormValues()
	for key, raw := range validateValues {
		values.Set(key, *raw)
	}
	return values
}

func runValidate(cmd *cobra.Command, _ []string) error {
	values := flagValues()
	out := cmd.OutOrStdout()

	result := validation.Check(values)
	if !validateSubmit || !result.Valid {
		if err := printValidation(out, result); err != nil {
			return err
		}
		if !result.Valid {
			return form.ErrInvalid
		}
		return nil
	}

	app, err := riskform.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	outcome, err := app.Assess(cmd.Context(), values)
	if err != nil {
		return err
	}
	if outcome.Kind != form.OutcomeSucceeded {
		fmt.Fprintln(out, outcome.Notice)
		return outcome.Err
	}
	if validateJSON {
		return json.NewEncoder(out).Encode(outcome.Result)
	}
	fmt.Fprintf(out, "Risk Level: %s\n", outcome.Result.Display())
	return nil
}

func printValidation(out io.Writer, result validation.Result) error {
	if validateJSON {
		return json.NewEncoder(out).Encode(result)
	}
	if result.Valid {
		_, err := fmt.Fprintln(out, "all fields valid")
		return err
	}
	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(out, "%s: %s\n", issue.Field, issue.Message); err != nil {
			return err
		}
	}
	return nil
}

var fieldsFormat string

// fieldsCmd prints the field table
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Print the clinical field table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := contract.MarshalFields(fieldsFormat, model.Fields())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	fieldsCmd.Flags().StringVar(&fieldsFormat, "format", "json", "output format: json or yaml")
}

var contractCheck bool

// contractCmd prints or checks the prediction service contract
var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Print the prediction service OpenAPI document",
	RunE:  runContract,
}

func init() {
	contractCmd.Flags().BoolVar(&contractCheck, "check", false, "verify the document against the field table instead of printing it")
}

func runContract(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if !contractCheck {
		_, err := out.Write(contract.Raw())
		return err
	}

	doc, err := contract.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := doc.Check(model.Fields()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s: request schema matches all %d fields\n", doc.Title(), len(model.Keys()))
	return err
}
