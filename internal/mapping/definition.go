package mapping

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
)

// Definition is the YAML form of a mapping file:
//
//	entities:
//	  - name: person
//	    each: $.people[*]
//	    id: $.ref
//	    fields:
//	      name: $.name
//	      born: $.dob.`datetime(%Y-%m-%d, 0:4)`
type Definition struct {
	Entities []EntityDefinition `yaml:"entities"`
}

// EntityDefinition describes one entity. Each selects the source elements;
// without it the whole document is the single source. ID and field queries
// are evaluated against each source element.
type EntityDefinition struct {
	Name   string `yaml:"name"`
	Each   string `yaml:"each,omitempty"`
	ID     string `yaml:"id,omitempty"`
	Fields Fields `yaml:"fields"`
}

// Field binds an output field to a query.
type Field struct {
	Name  string
	Query string
}

// Fields preserves declaration order.
type Fields []Field

// UnmarshalYAML accepts a mapping of field name to query text.
func (fields *Fields) UnmarshalYAML(node ast.Node) error {
	n, ok := node.(*ast.MappingNode)
	if !ok {
		if pair, single := node.(*ast.MappingValueNode); single {
			n = &ast.MappingNode{Values: []*ast.MappingValueNode{pair}}
		} else {
			return fmt.Errorf("%w: fields must be a mapping", ErrMapping)
		}
	}

	out := make(Fields, 0, len(n.Values))
	seen := make(map[string]struct{}, len(n.Values))
	for _, pair := range n.Values {
		name, err := text(pair.Key)
		if err != nil {
			return fmt.Errorf("%w: field name: %v", ErrMapping, err)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrMapping, name)
		}
		seen[name] = struct{}{}

		expr, err := text(pair.Value)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrMapping, name, err)
		}

		out = append(out, Field{Name: name, Query: expr})
	}

	*fields = out
	return nil
}

func text(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, nil
	case *ast.MappingKeyNode:
		return text(n.Value)
	default:
		return "", fmt.Errorf("must be a string, got %s", node.Type())
	}
}
