package operator

import (
	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/datum"
)

// comparison holds the arguments shared by match and notmatch.
type comparison struct {
	term    string
	nullLit string
}

// compare reports null when the stringified value equals the null literal,
// and otherwise whether it equals term.
func (c comparison) compare(value any) (equal bool, null bool) {
	text := canonical.Text(value)
	if text == c.nullLit {
		return false, true
	}
	return text == c.term, false
}

// Match yields true when the value equals term, null when it equals the null
// literal, false otherwise.
//
//	`match(yes, n/a)`
type Match struct {
	base
	comparison
}

func newMatch(b base, args []string) (Operator, error) {
	return &Match{base: b, comparison: comparison{term: args[0], nullLit: args[1]}}, nil
}

func (m *Match) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(m, d)
}

func (m *Match) transform(value any) (any, error) {
	equal, null := m.compare(value)
	if null {
		return nil, nil
	}
	return equal, nil
}

// NotMatch is Match with the boolean inverted.
//
//	`notmatch(yes, n/a)`
type NotMatch struct {
	base
	comparison
}

func newNotMatch(b base, args []string) (Operator, error) {
	return &NotMatch{base: b, comparison: comparison{term: args[0], nullLit: args[1]}}, nil
}

func (m *NotMatch) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(m, d)
}

func (m *NotMatch) transform(value any) (any, error) {
	equal, null := m.compare(value)
	if null {
		return nil, nil
	}
	return !equal, nil
}
