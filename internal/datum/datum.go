// Package datum defines the located value passed between query steps.
package datum

import "strconv"

// Root is the normalized path of the query argument.
const Root = "$"

// Datum pairs a value with its normalized path in the queried document.
type Datum struct {
	Path  string
	Value any
}

// Wrap locates value at the document root.
func Wrap(value any) Datum {
	return Datum{Path: Root, Value: value}
}

// Index locates value at element i of d.
func (d Datum) Index(i int, value any) Datum {
	return Datum{Path: d.Path + "[" + strconv.Itoa(i) + "]", Value: value}
}

// With keeps the location of d and replaces its value.
func (d Datum) With(value any) Datum {
	return Datum{Path: d.Path, Value: value}
}

// Values unwraps a result set.
func Values(ds []Datum) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = d.Value
	}
	return out
}

// Finder is one step of a compiled query: it maps a located value to zero or
// more located values.
type Finder interface {
	Find(d Datum) ([]Datum, error)
	String() string
}
