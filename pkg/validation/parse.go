package validation

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix matches the longest leading decimal literal, the same way a
// browser's parseFloat reads form input.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

const leadingSpace = " \t\n\r\f\v\u00a0\uFEFF"

// ParseNumber reads raw form input as a float. Leading whitespace is skipped
// and trailing garbage after a numeric prefix is ignored ("12abc" is 12). The
// boolean is false when no numeric prefix exists, which includes "", "abc" and
// "NaN".
func ParseNumber(raw string) (float64, bool) {
	prefix := numericPrefix.FindString(strings.TrimLeft(raw, leadingSpace))
	if prefix == "" {
		return 0, false
	}

	if strings.TrimLeft(prefix, "+-") == "Infinity" {
		if strings.HasPrefix(prefix, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// Huge exponents overflow to ±Inf; that is still a number.
		if errors.Is(err, strconv.ErrRange) {
			return value, true
		}
		return 0, false
	}
	return value, true
}
