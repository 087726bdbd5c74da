// Package coerce converts runtime values between JSON kinds by name.
//
// Coercion never fails: when a conversion is impossible the original value is
// returned unchanged.
package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/number"
)

// Kind names a coercion.
type Kind string

const (
	KindInt     Kind = "int"
	KindBoolean Kind = "boolean"
	KindString  Kind = "string"
	KindFloat   Kind = "float"
	KindJSON    Kind = "json"
	KindNone    Kind = "none"
	KindNull    Kind = "null"
)

var errNotConvertible = errors.New("value not convertible")

type coercionFunc func(value any) (any, error)

var registry = map[Kind]coercionFunc{
	KindInt:     toInt,
	KindBoolean: func(value any) (any, error) { return canonical.Truthy(value), nil },
	KindString:  func(value any) (any, error) { return canonical.Text(value), nil },
	KindFloat:   toFloat,
	KindJSON:    fromJSON,
	KindNone:    func(value any) (any, error) { return value, nil },
	KindNull:    func(any) (any, error) { return nil, nil },
}

// Kinds lists the registered coercion names.
func Kinds() []Kind {
	return []Kind{KindInt, KindBoolean, KindString, KindFloat, KindJSON, KindNone, KindNull}
}

// Known reports whether kind has a registered coercion.
func Known(kind string) bool {
	_, ok := registry[Kind(kind)]
	return ok
}

// Coerce converts value according to kind. Unknown kinds behave like "none".
func Coerce(value any, kind string) any {
	fn, ok := registry[Kind(kind)]
	if !ok {
		fn = registry[KindNone]
	}

	converted, err := fn(value)
	if err != nil {
		return value
	}

	return converted
}

// toInt parses strings as integers first and falls back to a float parse
// truncated toward zero, so "1.09" becomes 1.
func toInt(value any) (any, error) {
	switch current := value.(type) {
	case string:
		s := strings.TrimSpace(current)
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(parsed), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not numeric", errNotConvertible, current)
		}
		return number.Truncate(f)
	case bool:
		if current {
			return 1, nil
		}
		return 0, nil
	}

	return number.ToInt(value)
}

func toFloat(value any) (any, error) {
	switch current := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(current), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not numeric", errNotConvertible, current)
		}
		return f, nil
	case bool:
		if current {
			return 1.0, nil
		}
		return 0.0, nil
	}

	f, ok := number.ToFloat64(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not numeric", errNotConvertible, value)
	}

	return f, nil
}

func fromJSON(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: json coercion needs a string, got %T", errNotConvertible, value)
	}

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotConvertible, err)
	}

	return decoded, nil
}
