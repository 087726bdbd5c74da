package query

import (
	"fmt"
	"strings"

	"github.com/jacoelho/jpext/internal/stack"
)

// piece is either JSONPath text or the token of a named operator.
type piece struct {
	text  string
	named bool
}

var closers = map[byte]byte{']': '[', ')': '('}

// split separates backtick-quoted named operators from the JSONPath text
// around them. Backticks inside quoted strings are literal; a named operator
// may not appear inside brackets or parentheses.
func split(expr string) ([]piece, error) {
	var (
		pieces []piece
		buf    strings.Builder
		quote  byte
	)
	open := stack.New[byte]()

	for i := 0; i < len(expr); i++ {
		c := expr[i]

		if quote != 0 {
			buf.WriteByte(c)
			if c == '\\' && i+1 < len(expr) {
				i++
				buf.WriteByte(expr[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
			buf.WriteByte(c)
		case '[', '(':
			open.Push(c)
			buf.WriteByte(c)
		case ']', ')':
			top, ok := open.Pop()
			if !ok || top != closers[c] {
				return nil, syntaxError(expr, "unbalanced %q at offset %d", c, i)
			}
			buf.WriteByte(c)
		case '`':
			if !open.IsEmpty() {
				return nil, syntaxError(expr, "named operator inside brackets at offset %d", i)
			}
			end := strings.IndexByte(expr[i+1:], '`')
			if end < 0 {
				return nil, syntaxError(expr, "unterminated named operator at offset %d", i)
			}
			token := expr[i+1 : i+1+end]
			if strings.TrimSpace(token) == "" {
				return nil, syntaxError(expr, "empty named operator at offset %d", i)
			}
			pieces = append(pieces, piece{text: buf.String()}, piece{text: token, named: true})
			buf.Reset()
			i += end + 1
		default:
			buf.WriteByte(c)
		}
	}

	if quote != 0 {
		return nil, syntaxError(expr, "unterminated string literal")
	}
	if top, ok := open.Peek(); ok {
		return nil, syntaxError(expr, "unclosed %q", top)
	}

	return append(pieces, piece{text: buf.String()}), nil
}

func syntaxError(expr, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSyntax, expr, fmt.Sprintf(format, args...))
}
