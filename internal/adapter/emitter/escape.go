package emitter

import (
	"errors"
	"fmt"
	"strings"
)

// continuation closes a Java string literal after an escaped newline and
// reopens it on the next, indented line.
const continuation = "\" + //\n\t\t\t\t\t\t\""

var ErrMalformedLiteral = errors.New("malformed string literal")

// Escape turns s into the body of a Java string literal. Every newline but a
// trailing one also breaks the literal so generated lines stay short.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 10)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
			if i < len(s)-1 {
				b.WriteString(continuation)
			}
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// Unescape reverses Escape.
func Unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 >= len(s) {
				return "", fmt.Errorf("%w: dangling backslash at %d", ErrMalformedLiteral, i)
			}
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case '"', '\\':
				b.WriteByte(s[i])
			default:
				return "", fmt.Errorf("%w: unknown escape \\%c at %d", ErrMalformedLiteral, s[i], i-1)
			}
		case '"':
			if !strings.HasPrefix(s[i:], continuation) {
				return "", fmt.Errorf("%w: unescaped quote at %d", ErrMalformedLiteral, i)
			}
			i += len(continuation) - 1
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}
