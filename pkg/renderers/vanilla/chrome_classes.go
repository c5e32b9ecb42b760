package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage     ChromeClass = "riskform-page"
	ClassForm     ChromeClass = "riskform-form"
	ClassField    ChromeClass = "riskform-field"
	ClassInvalid  ChromeClass = "riskform-invalid"
	ClassError    ChromeClass = "riskform-error"
	ClassResult   ChromeClass = "riskform-result"
	ClassHigh     ChromeClass = "riskform-result--high"
	ClassLow      ChromeClass = "riskform-result--low"
	ClassNotice   ChromeClass = "riskform-notice"
	ClassBackdrop ChromeClass = "riskform-backdrop"
	ClassCircle   ChromeClass = "riskform-circle"
)

// resultClass picks the banner modifier for a level.
func resultClass(high bool) string {
	if high {
		return string(ClassHigh)
	}
	return string(ClassLow)
}
