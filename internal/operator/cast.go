package operator

import (
	"strings"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/coerce"
	"github.com/jacoelho/jpext/internal/datum"
)

// Cast converts the value with a named coercion.
//
//	`cast(int)`
type Cast struct {
	base
	coercion string
}

func newCast(b base, args []string) (Operator, error) {
	return &Cast{base: b, coercion: args[0]}, nil
}

func (c *Cast) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(c, d)
}

func (c *Cast) transform(value any) (any, error) {
	return coerce.Coerce(value, c.coercion), nil
}

// SplitList splits a string on a one-character delimiter and coerces each
// piece. It works on the value as a whole and does not broadcast.
//
//	`splitlist(|, int)`
type SplitList struct {
	base
	delimiter string
	coercion  string
}

func newSplitList(b base, args []string) (Operator, error) {
	return &SplitList{base: b, delimiter: args[0], coercion: args[1]}, nil
}

func (s *SplitList) Find(d datum.Datum) ([]datum.Datum, error) {
	if !canonical.Truthy(d.Value) {
		return nil, nil
	}

	text, ok := d.Value.(string)
	if !ok {
		return nil, nil
	}

	pieces := strings.Split(text, s.delimiter)
	out := make([]datum.Datum, len(pieces))
	for i, piece := range pieces {
		out[i] = d.Index(i, coerce.Coerce(piece, s.coercion))
	}

	return out, nil
}
