package operator

import (
	"errors"
	"strings"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/datum"
)

var errPlaceholder = errors.New("format must use {} or {0} placeholders; write {{ and }} for literal braces")

// Template substitutes the value's canonical JSON text into a format string.
// Strings are quoted, so `template(id-{})` on "x" yields `id-"x"`.
//
//	`template(Name: {})`
type Template struct {
	base
	format string
}

func newTemplate(b base, args []string) (Operator, error) {
	if _, err := substitute(args[0], ""); err != nil {
		return nil, err
	}
	return &Template{base: b, format: args[0]}, nil
}

func (t *Template) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(t, d)
}

func (t *Template) transform(value any) (any, error) {
	encoded, err := canonical.JSON(value)
	if err != nil {
		return nil, nil
	}

	out, err := substitute(t.format, string(encoded))
	if err != nil {
		return nil, nil
	}

	return out, nil
}

// substitute replaces every {} or {0} field in format with value.
func substitute(format, value string) (string, error) {
	var b strings.Builder

	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", errPlaceholder
			}
			field := format[i+1 : i+end]
			if field != "" && field != "0" {
				return "", errPlaceholder
			}
			b.WriteString(value)
			i += end
		case c == '}':
			return "", errPlaceholder
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}
