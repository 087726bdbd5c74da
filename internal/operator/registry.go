package operator

import (
	"fmt"
	"strings"

	"github.com/jacoelho/jpext/internal/datum"
)

// signatures is consulted in order; the first prefix match owns the token.
var signatures = []*signature{
	define("splitlist", KindSplitList, newSplitList, oneChar, anyText),
	define("cast", KindCast, newCast, anyText),
	define("match", KindMatch, newMatch, anyText, anyText),
	define("notmatch", KindNotMatch, newNotMatch, anyText, anyText),
	define("datetime", KindDatetime, newDatetime, anyText, anyText),
	define("hash", KindHash, newHash, anyText),
	define("valuereplace", KindValueReplace, newValueReplace, anyText, anyText),
	define("template", KindTemplate, newTemplate, anyText),
	define("dictionaryreplace", KindDictionaryReplace, newDictionaryReplace, mappingText),
}

// Host resolves named operators this package does not define, such as the
// query language's own intrinsics.
type Host interface {
	NamedOperator(token string) (datum.Finder, error)
}

// Names lists the registered operator names in dispatch order.
func Names() []string {
	names := make([]string, len(signatures))
	for i, s := range signatures {
		names[i] = s.name
	}
	return names
}

// Arity returns the number of arguments the named operator takes.
func Arity(name string) (int, bool) {
	for _, s := range signatures {
		if s.name == name {
			return s.arity(), true
		}
	}
	return 0, false
}

// Parse builds the operator for token. Surrounding backticks are optional, so
// the String form of an operator parses back to an equal operator.
func Parse(token string) (Operator, error) {
	token = trimTicks(token)

	s := lookup(token)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, token)
	}

	return s.construct(token)
}

// Dispatch builds the operator for token, forwarding tokens with no
// registered prefix to host.
func Dispatch(token string, host Host) (datum.Finder, error) {
	token = trimTicks(token)

	if s := lookup(token); s != nil {
		op, err := s.construct(token)
		if err != nil {
			return nil, err
		}
		return op, nil
	}

	if host == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, token)
	}

	return host.NamedOperator(token)
}

func lookup(token string) *signature {
	for _, s := range signatures {
		if strings.HasPrefix(token, s.prefix()) {
			return s
		}
	}
	return nil
}

func trimTicks(token string) string {
	if len(token) >= 2 && strings.HasPrefix(token, "`") && strings.HasSuffix(token, "`") {
		return token[1 : len(token)-1]
	}
	return token
}
