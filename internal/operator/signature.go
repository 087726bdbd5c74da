package operator

import (
	"errors"
	"regexp"
	"strings"
)

// shape is the pattern one argument must match. Arguments are separated by a
// comma followed by exactly one space; other commas belong to the argument.
type shape string

const (
	anyText     shape = `(.+)`
	oneChar     shape = `(.)`
	mappingText shape = `(\{.*\})`
)

// constructor builds an operator from its arguments. Errors other than
// *DefinitionError are reported as signature errors.
type constructor func(b base, args []string) (Operator, error)

// signature describes one operator: its name, argument shapes and how to
// build it from the extracted arguments.
type signature struct {
	name    string
	kind    Kind
	shapes  []shape
	build   constructor
	pattern *regexp.Regexp
}

func define(name string, kind Kind, build constructor, shapes ...shape) *signature {
	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = string(s)
	}

	expr := `^` + regexp.QuoteMeta(name) + `\(` + strings.Join(parts, ", ") + `\)$`

	return &signature{
		name:    name,
		kind:    kind,
		shapes:  shapes,
		build:   build,
		pattern: regexp.MustCompile(expr),
	}
}

// prefix is what a token must start with to be handled by this signature.
func (s *signature) prefix() string {
	return s.name + "("
}

func (s *signature) arity() int {
	return len(s.shapes)
}

// args extracts the argument list from token.
func (s *signature) args(token string) ([]string, error) {
	m := s.pattern.FindStringSubmatch(token)
	if m == nil {
		return nil, s.invalid(token, nil)
	}
	return m[1:], nil
}

func (s *signature) invalid(token string, err error) error {
	return &SignatureError{Token: token, Pattern: s.pattern.String(), Err: err}
}

func (s *signature) construct(token string) (Operator, error) {
	args, err := s.args(token)
	if err != nil {
		return nil, err
	}

	op, err := s.build(base{kind: s.kind, token: token}, args)
	if err != nil {
		var defErr *DefinitionError
		if errors.As(err, &defErr) {
			return nil, err
		}
		return nil, s.invalid(token, err)
	}

	return op, nil
}
