// Package template defines the template engine contract used by HTML
// renderers. The gotemplate subpackage provides the pongo2-backed engine.
package template
