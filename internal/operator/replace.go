package operator

import (
	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/datum"
	"github.com/jacoelho/jpext/internal/literal"
)

// ValueReplace swaps a value whose text equals matchValue for replacement and
// keeps every other value.
//
//	`valuereplace(N/A, unknown)`
type ValueReplace struct {
	base
	match       string
	replacement string
}

func newValueReplace(b base, args []string) (Operator, error) {
	return &ValueReplace{base: b, match: args[0], replacement: args[1]}, nil
}

func (r *ValueReplace) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(r, d)
}

func (r *ValueReplace) transform(value any) (any, error) {
	if canonical.Text(value) == r.match {
		return r.replacement, nil
	}
	return value, nil
}

// DictionaryReplace looks the value up in a static mapping. Values missing
// from the mapping become null.
//
//	`dictionaryreplace({'m': 'male', 'f': 'female'})`
type DictionaryReplace struct {
	base
	mapping *literal.Mapping
}

func newDictionaryReplace(b base, args []string) (Operator, error) {
	mapping, err := literal.ParseMapping(args[0])
	if err != nil {
		return nil, err
	}
	return &DictionaryReplace{base: b, mapping: mapping}, nil
}

func (r *DictionaryReplace) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(r, d)
}

func (r *DictionaryReplace) transform(value any) (any, error) {
	v, ok := r.mapping.Lookup(value)
	if !ok {
		return nil, nil
	}
	return v, nil
}
