// Package intrinsic provides the query language's built-in named operators:
// `this`, `len`, `keys` and `sorted`. They act on the value as a whole and
// never broadcast.
package intrinsic

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jpext/internal/datum"
	"github.com/jacoelho/jpext/internal/number"
	"github.com/jacoelho/jpext/internal/operator"
)

type function func(value any) (any, bool)

var functions = map[string]function{
	"this":   func(value any) (any, bool) { return value, true },
	"len":    length,
	"keys":   keys,
	"sorted": sorted,
}

// Host resolves intrinsic names. It is the fallback for tokens the operator
// registry does not recognise.
type Host struct{}

var _ operator.Host = Host{}

// NamedOperator returns the intrinsic named token.
func (Host) NamedOperator(token string) (datum.Finder, error) {
	fn, ok := functions[token]
	if !ok {
		return nil, fmt.Errorf("%w: %q", operator.ErrUnknownOperator, token)
	}
	return &Intrinsic{name: token, fn: fn}, nil
}

// Names lists the intrinsic names, sorted.
func Names() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Intrinsic is a built-in whole-value operator.
type Intrinsic struct {
	name string
	fn   function
}

// Find yields one result, or none when the value has the wrong shape.
func (i *Intrinsic) Find(d datum.Datum) ([]datum.Datum, error) {
	v, ok := i.fn(d.Value)
	if !ok {
		return nil, nil
	}
	return []datum.Datum{d.With(v)}, nil
}

func (i *Intrinsic) String() string {
	return "`" + i.name + "`"
}

func length(value any) (any, bool) {
	switch current := value.(type) {
	case string:
		return utf8.RuneCountInString(current), true
	case []any:
		return len(current), true
	case map[string]any:
		return len(current), true
	default:
		return nil, false
	}
}

func keys(value any) (any, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	return sortedKeys(m), true
}

// sorted orders a sequence of all numbers or all strings; a mapping yields its
// sorted keys.
func sorted(value any) (any, bool) {
	switch current := value.(type) {
	case map[string]any:
		return sortedKeys(current), true
	case []any:
		return sortSequence(current)
	default:
		return nil, false
	}
}

func sortSequence(items []any) (any, bool) {
	out := slices.Clone(items)
	if len(out) == 0 {
		return out, true
	}

	if _, isString := out[0].(string); isString {
		for _, item := range out {
			if _, ok := item.(string); !ok {
				return nil, false
			}
		}
		slices.SortStableFunc(out, func(a, b any) int {
			return strings.Compare(a.(string), b.(string))
		})
		return out, true
	}

	for _, item := range out {
		if !number.IsNumber(item) {
			return nil, false
		}
	}
	slices.SortStableFunc(out, func(a, b any) int {
		fa, _ := number.ToFloat64(a)
		fb, _ := number.ToFloat64(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	})

	return out, true
}

func sortedKeys(m map[string]any) []any {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]any, len(names))
	for i, k := range names {
		out[i] = k
	}
	return out
}
