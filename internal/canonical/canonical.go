// Package canonical renders runtime values into deterministic text.
//
// JSON output is compact, mapping keys are sorted and HTML characters are not
// escaped, so structurally equal values always render to the same bytes
// regardless of key insertion order.
package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/jacoelho/jpext/internal/number"
)

// ErrUnsupportedValue indicates a value with no JSON representation.
var ErrUnsupportedValue = errors.New("value has no canonical form")

// JSON encodes value as canonical JSON text.
func JSON(value any) ([]byte, error) {
	normalized, err := normalize(value)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Text stringifies value: strings are returned verbatim, everything else is
// rendered as canonical JSON (null, true, false, 1.5, [1,2], {"a":1}).
// Comparisons against operator arguments use this form, so a boolean matches
// "true" and not "True", and 1.0 matches "1".
func Text(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	encoded, err := JSON(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(encoded)
}

// Truthy reports whether value counts as true: nil, false, zero numbers and
// empty strings, sequences or mappings are false.
func Truthy(value any) bool {
	switch current := value.(type) {
	case nil:
		return false
	case bool:
		return current
	case string:
		return current != ""
	case []any:
		return len(current) > 0
	case map[string]any:
		return len(current) > 0
	}

	if f, ok := number.ToFloat64(value); ok {
		return f != 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	}

	return true
}

// normalize rewrites decoder-specific containers (map[any]any from YAML
// decoders) into shapes encoding/json sorts deterministically.
func normalize(value any) (any, error) {
	switch current := value.(type) {
	case []any:
		out := make([]any, len(current))
		for i, item := range current {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(current))
		for k, item := range current {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(current))
		for k, item := range current {
			key := Text(k)
			if _, dup := out[key]; dup {
				return nil, fmt.Errorf("%w: duplicate key %q after stringification", ErrUnsupportedValue, key)
			}
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	default:
		return value, nil
	}
}
