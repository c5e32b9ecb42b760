package vanilla

import (
	"strconv"

	"github.com/flosch/pongo2/v6"
)

func templateFilters() map[string]pongo2.FilterFunction {
	return map[string]pongo2.FilterFunction{
		"fixed": filterFixed,
	}
}

// filterFixed formats a number with a fixed number of decimals, two by
// default, so CSS lengths and timings print without float noise.
func filterFixed(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	places := 2
	if param != nil && param.IsInteger() {
		places = param.Integer()
	}
	if !in.IsNumber() {
		return pongo2.AsValue(in.String()), nil
	}
	return pongo2.AsValue(strconv.FormatFloat(in.Float(), 'f', places, 64)), nil
}
