package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-riskform/pkg/model"
)

// MarshalFields encodes the field table as "json" (indented) or "yaml".
func MarshalFields(format string, fields []model.FieldSpec) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		out, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(fields)
	default:
		return nil, fmt.Errorf("contract: unsupported format %q", format)
	}
}
