package glexpr

import (
	"errors"
	"fmt"
)

var (
	// ErrLex indicates the formula contains a malformed token.
	ErrLex = errors.New("lex error")

	// ErrSyntax indicates the token sequence could not be reduced to an expression.
	ErrSyntax = errors.New("syntax error")

	// ErrInvalidCell is returned when reading a cell whose formula did not compile.
	ErrInvalidCell = errors.New("invalid formula cell")
)

// SyntaxError describes why a formula was rejected. It wraps either
// [ErrLex] or [ErrSyntax].
type SyntaxError struct {
	Err error  // ErrLex or ErrSyntax.
	Pos int    // Byte offset into the formula, or -1 if unknown.
	Msg string // Human readable description.
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%v: %s", e.Err, e.Msg)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func lexErrorf(pos int, format string, args ...any) error {
	return &SyntaxError{Err: ErrLex, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func syntaxErrorf(pos int, format string, args ...any) error {
	return &SyntaxError{Err: ErrSyntax, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
