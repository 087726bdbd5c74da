package operator

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/jacoelho/jpext/internal/datum"
)

const (
	isoLayout = "2006-01-02T15:04:05"

	// defaultYear fills in formats without a year, as strptime does.
	defaultYear = 1900
)

// Datetime parses a string with a strptime format and returns a slice of its
// ISO-8601 representation. Numeric fields accept one or two digits. Values
// that do not match the format become null.
//
//	`datetime(%Y-%m-%d, 0:4)`
type Datetime struct {
	base
	format string
	zoned  bool
	dated  bool
	slice  string
}

func newDatetime(b base, args []string) (Operator, error) {
	// Layout rejects directives that have no Go equivalent.
	if _, err := strftime.Layout(args[0]); err != nil {
		return nil, &DefinitionError{Format: args[0], Err: err}
	}

	return &Datetime{
		base:   b,
		format: args[0],
		zoned:  hasDirective(args[0], "%z", "%Z", "%:z"),
		dated:  hasDirective(args[0], "%Y", "%y", "%C", "%G", "%F", "%D", "%c", "%x"),
		slice:  args[1],
	}, nil
}

func (dt *Datetime) Find(d datum.Datum) ([]datum.Datum, error) {
	return broadcast(dt, d)
}

func (dt *Datetime) transform(value any) (any, error) {
	text, ok := value.(string)
	if !ok {
		return nil, nil
	}

	parsed, err := strftime.Parse(dt.format, text)
	if err != nil {
		return nil, nil
	}
	if !dt.dated {
		parsed = parsed.AddDate(defaultYear-parsed.Year(), 0, 0)
	}

	sliced, ok := sliceText(isoFormat(parsed, dt.zoned), dt.slice)
	if !ok {
		return nil, nil
	}

	return sliced, nil
}

func hasDirective(format string, directives ...string) bool {
	for _, d := range directives {
		if strings.Contains(format, d) {
			return true
		}
	}
	return false
}

// isoFormat renders t as YYYY-MM-DDTHH:MM:SS, with microseconds when present
// and a ±HH:MM offset when the format carried a zone.
func isoFormat(t time.Time, zoned bool) string {
	var b strings.Builder
	b.WriteString(t.Format(isoLayout))

	if micro := t.Nanosecond() / int(time.Microsecond); micro != 0 {
		fmt.Fprintf(&b, ".%06d", micro)
	}

	if zoned {
		b.WriteString(t.Format("-07:00"))
	}

	return b.String()
}
