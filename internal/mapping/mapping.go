// Package mapping extracts entities from documents using named-operator
// queries declared in a YAML mapping file.
package mapping

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/datum"
	"github.com/jacoelho/jpext/internal/ident"
	"github.com/jacoelho/jpext/internal/query"
)

// ErrMapping indicates an invalid mapping definition.
var ErrMapping = errors.New("mapping: invalid definition")

// Mapping is a compiled definition. It is safe for concurrent use.
type Mapping struct {
	entities []entity
}

type entity struct {
	name   string
	each   *query.Query
	id     *query.Query
	fields []field
}

type field struct {
	name  string
	query *query.Query
}

// Record is one extracted entity. Source is the location of the element it
// was extracted from.
type Record struct {
	Entity string         `json:"entity"`
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Fields map[string]any `json:"fields"`
}

// Load decodes and compiles a mapping file.
func Load(r io.Reader) (*Mapping, error) {
	var def Definition
	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty mapping", ErrMapping)
		}
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrMapping, err)
	}

	return Compile(def)
}

// Compile validates def and compiles every query in it.
func Compile(def Definition) (*Mapping, error) {
	if len(def.Entities) == 0 {
		return nil, fmt.Errorf("%w: no entities", ErrMapping)
	}

	m := &Mapping{entities: make([]entity, 0, len(def.Entities))}
	names := make(map[string]struct{}, len(def.Entities))

	for i, ed := range def.Entities {
		if ed.Name == "" {
			return nil, fmt.Errorf("%w: entity %d: missing name", ErrMapping, i)
		}
		if _, dup := names[ed.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate entity %q", ErrMapping, ed.Name)
		}
		names[ed.Name] = struct{}{}

		if len(ed.Fields) == 0 {
			return nil, fmt.Errorf("%w: entity %q: no fields", ErrMapping, ed.Name)
		}

		e := entity{name: ed.Name, fields: make([]field, 0, len(ed.Fields))}

		var err error
		if e.each, err = optional(ed.Each); err != nil {
			return nil, fmt.Errorf("entity %q each: %w", ed.Name, err)
		}
		if e.id, err = optional(ed.ID); err != nil {
			return nil, fmt.Errorf("entity %q id: %w", ed.Name, err)
		}

		for _, f := range ed.Fields {
			q, err := query.Compile(f.Query)
			if err != nil {
				return nil, fmt.Errorf("entity %q field %q: %w", ed.Name, f.Name, err)
			}
			e.fields = append(e.fields, field{name: f.Name, query: q})
		}

		m.entities = append(m.entities, e)
	}

	return m, nil
}

func optional(expr string) (*query.Query, error) {
	if expr == "" {
		return nil, nil
	}
	return query.Compile(expr)
}

// Entities returns the entity names in declaration order.
func (m *Mapping) Entities() []string {
	out := make([]string, len(m.entities))
	for i, e := range m.entities {
		out[i] = e.name
	}
	return out
}

// Extract applies the mapping to doc. A field with no results is omitted,
// one result is stored as is and several are stored as a list.
func (m *Mapping) Extract(doc any) ([]Record, error) {
	var records []Record

	for _, e := range m.entities {
		sources := []datum.Datum{datum.Wrap(doc)}
		if e.each != nil {
			found, err := e.each.Find(doc)
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", e.name, err)
			}
			sources = found
		}

		for _, src := range sources {
			record, err := e.extract(src)
			if err != nil {
				return nil, fmt.Errorf("entity %q at %s: %w", e.name, src.Path, err)
			}
			records = append(records, record)
		}
	}

	return records, nil
}

func (e entity) extract(src datum.Datum) (Record, error) {
	record := Record{
		Entity: e.name,
		Source: src.Path,
		Fields: make(map[string]any, len(e.fields)),
	}

	for _, f := range e.fields {
		values, err := f.query.Values(src.Value)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", f.name, err)
		}

		switch len(values) {
		case 0:
		case 1:
			record.Fields[f.name] = values[0]
		default:
			record.Fields[f.name] = values
		}
	}

	if e.id != nil {
		values, err := e.id.Values(src.Value)
		if err != nil {
			return Record{}, fmt.Errorf("id: %w", err)
		}
		if len(values) > 0 && values[0] != nil {
			record.ID = canonical.Text(values[0])
		}
	}
	if record.ID == "" {
		record.ID = ident.New()
	}

	return record, nil
}
