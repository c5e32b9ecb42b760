package template

import (
	"io"
)

// TemplateRenderer is the engine seam HTML renderers depend on. The result
// is returned and also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
