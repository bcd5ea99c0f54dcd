package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoDeclaration      = errors.New("no type declaration found")
	ErrUnbalancedBraces   = errors.New("unbalanced braces")
	ErrMalformedSignature = errors.New("malformed method signature")
	ErrRead               = errors.New("read failure")
	ErrWrite              = errors.New("write failure")
	ErrFileTooLarge       = errors.New("file too large")
)

type BraceErrorKind int

const (
	// PrematureClose: a closing brace appeared before any matching opening brace.
	PrematureClose BraceErrorKind = iota
	// UnterminatedBody: the text ended inside the body.
	UnterminatedBody
)

func (k BraceErrorKind) String() string {
	switch k {
	case PrematureClose:
		return "premature close"
	case UnterminatedBody:
		return "unterminated body"
	default:
		return "unknown"
	}
}

// BraceError is returned when the closing brace of a method body cannot be
// located. Start is the offset the scan began at, At where it gave up.
type BraceError struct {
	Kind  BraceErrorKind
	Start int
	At    int
}

func (e *BraceError) Error() string {
	return fmt.Sprintf("%s: %s (scan started at %d, stopped at %d)", ErrUnbalancedBraces, e.Kind, e.Start, e.At)
}

func (e *BraceError) Unwrap() error {
	return ErrUnbalancedBraces
}

// Classify maps err to a short kind used in log fields.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoDeclaration):
		return "no-declaration"
	case errors.Is(err, ErrUnbalancedBraces):
		return "unbalanced-braces"
	case errors.Is(err, ErrMalformedSignature):
		return "malformed-signature"
	case errors.Is(err, ErrFileTooLarge):
		return "file-too-large"
	case errors.Is(err, ErrRead):
		return "io-read"
	case errors.Is(err, ErrWrite):
		return "io-write"
	default:
		return "unknown"
	}
}
