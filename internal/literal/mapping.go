// Package literal parses static mapping literals such as
// {'yes': 1, 'no': 0, 'unknown': null}.
//
// The accepted syntax is a YAML flow mapping restricted to scalar keys and
// values: quoted or plain strings, integers, floats, booleans and null.
// Sequences, nested mappings, anchors, aliases and tags are rejected.
package literal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/jacoelho/jpext/internal/number"
)

// ErrInvalidMapping indicates a literal outside the accepted mapping syntax.
var ErrInvalidMapping = errors.New("invalid mapping literal")

type keyKind uint8

const (
	keyNull keyKind = iota
	keyBool
	keyNumber
	keyString
)

// Key identifies a mapping entry. Numbers compare by value, so 1 and 1.0 are
// the same key while the string "1" is not.
type Key struct {
	kind keyKind
	text string
}

// KeyOf returns the lookup key for a runtime value. Sequences and mappings
// have no key.
func KeyOf(value any) (Key, bool) {
	switch current := value.(type) {
	case nil:
		return Key{kind: keyNull}, true
	case bool:
		if current {
			return Key{kind: keyBool, text: "true"}, true
		}
		return Key{kind: keyBool, text: "false"}, true
	case string:
		return Key{kind: keyString, text: current}, true
	}

	if f, ok := number.ToFloat64(value); ok {
		return Key{kind: keyNumber, text: number.Format(f)}, true
	}

	return Key{}, false
}

// Mapping is an immutable key/value table.
type Mapping struct {
	entries map[Key]any
}

// Lookup returns the value stored for key value.
func (m *Mapping) Lookup(value any) (any, bool) {
	key, ok := KeyOf(value)
	if !ok {
		return nil, false
	}

	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// ParseMapping builds a Mapping from src.
func ParseMapping(src string) (*Mapping, error) {
	trimmed := strings.TrimSpace(src)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return nil, fmt.Errorf("%w: %q must be enclosed in braces", ErrInvalidMapping, src)
	}

	file, err := parser.ParseBytes([]byte(trimmed), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidMapping, src, err)
	}
	if len(file.Docs) != 1 || file.Docs[0].Body == nil {
		return nil, fmt.Errorf("%w: %q must hold exactly one mapping", ErrInvalidMapping, src)
	}

	var pairs []*ast.MappingValueNode
	switch body := file.Docs[0].Body.(type) {
	case *ast.MappingNode:
		pairs = body.Values
	case *ast.MappingValueNode:
		pairs = []*ast.MappingValueNode{body}
	default:
		return nil, fmt.Errorf("%w: %q is not a mapping", ErrInvalidMapping, src)
	}

	m := &Mapping{entries: make(map[Key]any, len(pairs))}
	for _, pair := range pairs {
		rawKey, err := scalar(pair.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: key in %q: %v", ErrInvalidMapping, src, err)
		}
		key, _ := KeyOf(rawKey)
		if _, dup := m.entries[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %v in %q", ErrInvalidMapping, rawKey, src)
		}

		value, err := scalar(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: value for key %v in %q: %v", ErrInvalidMapping, rawKey, src, err)
		}

		m.entries[key] = value
	}

	return m, nil
}

// scalar extracts a primitive from an AST node.
// integer node value is normalized to int64
func scalar(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.NullNode:
		return nil, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.IntegerNode:
		switch v := n.Value.(type) {
		case int64:
			return v, nil
		case uint64:
			return int64(v), nil
		default:
			return nil, fmt.Errorf("unexpected integer node value type: %T", n.Value)
		}
	default:
		return nil, fmt.Errorf("must be a scalar, got %T", node)
	}
}
