// Package operator implements the named operators that can appear as
// backtick-quoted steps in a query, e.g. $.when.`datetime(%Y-%m-%d, 0:4)`.
//
// Every operator is built from its token by matching a fixed signature, holds
// its parsed arguments, and is immutable afterwards. Operators never fail on
// data: values they cannot handle yield null or no result. Malformed tokens
// and unsupported datetime directives fail when the operator is built.
package operator

import (
	"fmt"

	"github.com/jacoelho/jpext/internal/datum"
)

// Kind identifies an operator variant.
type Kind uint8

const (
	KindSplitList Kind = iota + 1
	KindCast
	KindMatch
	KindNotMatch
	KindDatetime
	KindHash
	KindValueReplace
	KindTemplate
	KindDictionaryReplace
)

var kindNames = map[Kind]string{
	KindSplitList:         "SplitList",
	KindCast:              "Cast",
	KindMatch:             "Match",
	KindNotMatch:          "NotMatch",
	KindDatetime:          "ParseDatetime",
	KindHash:              "Hash",
	KindValueReplace:      "ValueReplace",
	KindTemplate:          "Template",
	KindDictionaryReplace: "DictionaryReplace",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Operator is a parsed named operator. The set of implementations is closed.
type Operator interface {
	datum.Finder
	fmt.GoStringer

	Kind() Kind
	Token() string

	sealed()
}

// base carries the identity shared by all operators.
type base struct {
	kind  Kind
	token string
}

func (b base) Kind() Kind {
	return b.kind
}

func (b base) Token() string {
	return b.token
}

// String renders the operator the way it is written in a query.
func (b base) String() string {
	return "`" + b.token + "`"
}

func (b base) GoString() string {
	return fmt.Sprintf("%s(%q)", b.kind, b.token)
}

func (base) sealed() {}

// Equal reports whether a and b are the same kind of operator built from the
// same token.
func Equal(a, b Operator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.Token() == b.Token()
}
