// Package template renders query results with text/template for the command
// line --format option.
package template

import (
	"encoding/base64"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/ident"
	"github.com/jacoelho/jpext/internal/operator"
)

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuid": ident.New,

		"json": toJSON,
		"text": canonical.Text,
		"hash": operator.Digest,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCase,
		"trim":  strings.TrimSpace,

		"base64": base64Encode,
	}
}

func toJSON(value any) (string, error) {
	b, err := canonical.JSON(value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// titleCase uses Unicode word boundaries. A Caser is stateful, so each call
// gets its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Parse compiles a result format. Unknown fields fail at execution.
func Parse(name, text string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Funcs(FuncMap()).Parse(text)
}

// Render executes tmpl against data.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Apply parses and renders text in one step.
func Apply(text string, data any) (string, error) {
	if text == "" {
		return "", nil
	}

	tmpl, err := Parse("", text)
	if err != nil {
		return "", err
	}

	return Render(tmpl, data)
}
