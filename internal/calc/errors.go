package calc

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnsupported    = errors.New("unsupported expression")
	ErrFormat         = errors.New("format error")
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("numeric overflow")
)

// Error is returned by Evaluate and SolveLinear.
type Error struct {
	Kind   error
	Detail string
	// Note is the user-facing sentence for this failure.
	Note string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Note returns the user-facing note carried by err, or fallback when err is
// not a *Error or carries no note.
func Note(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Note != "" {
		return ce.Note
	}
	return fallback
}

func syntaxErr(format string, args ...any) error {
	return &Error{Kind: ErrSyntax, Detail: fmt.Sprintf(format, args...)}
}

func unsupportedErr(format string, args ...any) error {
	return &Error{Kind: ErrUnsupported, Detail: fmt.Sprintf(format, args...)}
}
