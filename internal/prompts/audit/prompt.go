// Package audit holds the prompts and output schemas for the editorial
// audit request sent with each page batch.
package audit

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the fixed system instructions: category definitions,
// counter-examples and output constraints.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the per-batch user prompt for a page sub-range.
func UserPrompt(start, end int) string {
	var buf bytes.Buffer
	data := struct{ Start, End int }{Start: start, End: end}
	if err := userTemplate.Execute(&buf, data); err != nil {
		// Fallback to raw template on error
		return userPromptTmpl
	}
	return buf.String()
}
