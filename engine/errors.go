package engine

import "fmt"

type Kind int

const (
	// NoInput: the input channel closed while a line was expected.
	NoInput Kind = iota
	// NoOutput: the output channel closed while a line was being written.
	NoOutput
	// InvalidInput: a malformed or out-of-sequence command.
	InvalidInput
)

// Error is the single failure type of a TEI session. Every Error ends the
// session.
type Error struct {
	Kind Kind
	Line string // Offending input, unsent output, or a description
	Err  error  // Underlying cause, if any
}

var (
	ErrNoInput      = &Error{Kind: NoInput}
	ErrNoOutput     = &Error{Kind: NoOutput}
	ErrInvalidInput = &Error{Kind: InvalidInput}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case NoInput:
		msg = "input channel closed"
	case NoOutput:
		msg = fmt.Sprintf("output channel closed when writing %q", e.Line)
	default:
		msg = fmt.Sprintf("invalid tei input %q", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any Error of the same kind, so errors.Is(err, ErrInvalidInput)
// holds for every invalid input.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidInput(format string, args ...any) error {
	return &Error{Kind: InvalidInput, Line: fmt.Sprintf(format, args...)}
}

func invalidInputErr(err error, format string, args ...any) error {
	return &Error{Kind: InvalidInput, Line: fmt.Sprintf(format, args...), Err: err}
}
