// Package query compiles JSONPath expressions extended with named operators,
// such as $.people[*].dob.`datetime(%Y-%m-%d, 0:4)`, and evaluates them
// against decoded JSON data.
//
// Plain path text is handled by github.com/theory/jsonpath (RFC 9535). Each
// backtick token becomes a step resolved by the operator registry, falling
// back to the intrinsics (`this`, `len`, `keys`, `sorted`). Path text after a
// named operator continues from the operator's results:
// $.doc.`cast(json)`.items[0].
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/jpext/internal/datum"
	"github.com/jacoelho/jpext/internal/intrinsic"
	"github.com/jacoelho/jpext/internal/operator"
)

// ErrSyntax indicates an expression the query grammar cannot compile.
var ErrSyntax = errors.New("query: syntax error")

// Query is a compiled expression. It is immutable and safe for concurrent use.
type Query struct {
	expr  string
	steps []datum.Finder
}

// Compile compiles expr with the intrinsics as fallback for unknown named
// operators.
func Compile(expr string) (*Query, error) {
	return CompileWithHost(expr, intrinsic.Host{})
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Query {
	q, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return q
}

// Validate reports whether expr compiles.
func Validate(expr string) error {
	_, err := Compile(expr)
	return err
}

// CompileWithHost compiles expr, forwarding unrecognised named operators to
// host.
func CompileWithHost(expr string, host operator.Host) (*Query, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: expression is empty", ErrSyntax)
	}

	pieces, err := split(expr)
	if err != nil {
		return nil, err
	}

	q := &Query{expr: expr}
	for i, p := range pieces {
		if p.named {
			finder, err := operator.Dispatch(p.text, host)
			if err != nil {
				return nil, fmt.Errorf("compile %s: %w", expr, err)
			}
			q.steps = append(q.steps, finder)
			continue
		}

		step, err := pathStep(expr, p.text, i == 0, i+1 < len(pieces))
		if err != nil {
			return nil, err
		}
		if step != nil {
			q.steps = append(q.steps, step)
		}
	}

	return q, nil
}

// pathStep compiles the JSONPath text around named operators. Text after an
// operator is relative to the operator's results. A nil step means the text
// selects its input unchanged.
func pathStep(expr, text string, first, beforeOperator bool) (datum.Finder, error) {
	if beforeOperator {
		text = strings.TrimSuffix(text, ".")
	}

	switch {
	case first && text == "":
		return nil, nil
	case first && !strings.HasPrefix(text, "$"):
		return nil, syntaxError(expr, "expression must start with $ or a named operator")
	case !first && text == "":
		return nil, nil
	case !first && text[0] != '.' && text[0] != '[':
		return nil, syntaxError(expr, "unexpected %q after named operator", text)
	case !first:
		text = "$" + text
	}

	if text == "$" {
		return nil, nil
	}

	path, err := jsonpath.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, expr, err)
	}

	return &selector{path: path}, nil
}

// Find evaluates the query against data and returns the located results in
// document order.
func (q *Query) Find(data any) ([]datum.Datum, error) {
	current := []datum.Datum{datum.Wrap(data)}

	for _, step := range q.steps {
		next := make([]datum.Datum, 0, len(current))
		for _, d := range current {
			found, err := step.Find(d)
			if err != nil {
				return nil, fmt.Errorf("%s at %s: %w", step, d.Path, err)
			}
			next = append(next, found...)
		}
		current = next
	}

	return current, nil
}

// Values is Find without locations.
func (q *Query) Values(data any) ([]any, error) {
	results, err := q.Find(data)
	if err != nil {
		return nil, err
	}
	return datum.Values(results), nil
}

// String returns the source expression.
func (q *Query) String() string {
	return q.expr
}

// Steps describes the compiled steps in evaluation order.
func (q *Query) Steps() []string {
	out := make([]string, len(q.steps))
	for i, step := range q.steps {
		out[i] = step.String()
	}
	return out
}

// selector is a plain JSONPath step.
type selector struct {
	path *jsonpath.Path
}

func (s *selector) Find(d datum.Datum) ([]datum.Datum, error) {
	nodes := s.path.SelectLocated(d.Value)

	out := make([]datum.Datum, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, datum.Datum{
			Path:  d.Path + strings.TrimPrefix(node.Path.String(), datum.Root),
			Value: node.Node,
		})
	}

	return out, nil
}

func (s *selector) String() string {
	return s.path.String()
}
