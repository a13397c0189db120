package parser

import (
	"fmt"

	"github.com/hurlgo/hurl/internal/sourcepos"
)

// ErrorKind tags a parse failure the way spec §7 requires: "expecting
// literal, invalid number, bad section name, duplicate section, escape
// error, ...".
type ErrorKind int

const (
	ErrExpectingLiteral ErrorKind = iota
	ErrInvalidNumber
	ErrInvalidSectionName
	ErrDuplicateSection
	ErrEscapeError
	ErrInvalidTemplate
	ErrInvalidDuration
	ErrUnexpectedEOF
	ErrInvalidMethod
	ErrInvalidURL
	ErrOther
)

// Error is a parse error: a position, a kind, a message, and the
// recoverable flag that drives `choice` backtracking (spec §4.1,
// §9 "Parser recovery flag").
type Error struct {
	Pos         sourcepos.Position
	Kind        ErrorKind
	Message     string
	Recoverable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func newError(pos sourcepos.Position, kind ErrorKind, recoverable bool, format string, args ...any) *Error {
	return &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...), Recoverable: recoverable}
}

// asParseError extracts *Error from err, or nil if err is some other
// error type (which is always treated as non-recoverable).
func asParseError(err error) *Error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*Error); ok {
		return pe
	}
	return nil
}

// IsRecoverable reports whether err is a recoverable parse error; any
// non-*Error error, or a non-recoverable *Error, is not.
func IsRecoverable(err error) bool {
	pe := asParseError(err)
	return pe != nil && pe.Recoverable
}
