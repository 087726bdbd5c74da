package operator

import "github.com/jacoelho/jpext/internal/datum"

// transformer is a single-value transform.
type transformer interface {
	transform(value any) (any, error)
}

// broadcast applies t to every element of a sequence value, preserving order
// and length, or once to any other value.
func broadcast(t transformer, d datum.Datum) ([]datum.Datum, error) {
	items, ok := d.Value.([]any)
	if !ok {
		v, err := t.transform(d.Value)
		if err != nil {
			return nil, err
		}
		return []datum.Datum{d.With(v)}, nil
	}

	out := make([]datum.Datum, 0, len(items))
	for i, item := range items {
		v, err := t.transform(item)
		if err != nil {
			return nil, err
		}
		out = append(out, d.Index(i, v))
	}

	return out, nil
}
