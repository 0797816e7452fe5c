package cfmerr

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

const maxStackDepth = 32

// Error is a tagged-variant error with an optional cause and the stack
// captured where it was constructed. The cause is owned exclusively by the
// Error and may be any error value.
type Error struct {
	kind  Kind
	cause error
	stack pkgerrors.StackTrace
}

// New returns an Error of the given kind without a cause.
func New(kind Kind) *Error {
	return newError(kind, nil, 3)
}

// Wrap returns an Error of the given kind whose cause is err. A nil err
// yields the same result as New.
func Wrap(kind Kind, err error) *Error {
	return newError(kind, err, 3)
}

// WrapIO wraps an I/O failure as the cause of kind, recording path on the
// intermediate IO layer.
func WrapIO(kind Kind, err error, path string) *Error {
	inner := newError(IO{Err: err, Path: path}, nil, 3)
	return newError(kind, inner, 3)
}

func newError(kind Kind, cause error, skip int) *Error {
	if kind == nil {
		kind = Unknown{}
	}
	return &Error{kind: kind, cause: cause, stack: capture(skip + 1)}
}

func capture(skip int) pkgerrors.StackTrace {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}
	st := make(pkgerrors.StackTrace, n)
	for i := 0; i < n; i++ {
		st[i] = pkgerrors.Frame(pcs[i])
	}
	return st
}

// Kind returns the variant of e.
func (e *Error) Kind() Kind {
	return e.kind
}

// Code is a pure function of the kind.
func (e *Error) Code() Code {
	return CodeOfKind(e.kind)
}

// Uint32 is the boundary-safe representation of e. It never panics; a nil
// receiver converts to zero, the success status.
func (e *Error) Uint32() uint32 {
	if e == nil {
		return 0
	}
	return uint32(e.Code())
}

// Error renders the kind only. Use %+v or Messages for the whole chain.
func (e *Error) Error() string {
	return Render(e.kind)
}

// Unwrap returns the cause. An IO error without a cause unwraps to the
// underlying I/O failure so errors.Is(err, fs.ErrNotExist) works.
func (e *Error) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	if k, ok := e.kind.(IO); ok {
		return k.Err
	}
	return nil
}

// Cause returns the owned cause only, never the IO payload. It satisfies the
// github.com/pkg/errors causer interface.
func (e *Error) Cause() error { return e.cause }

// StackTrace satisfies the github.com/pkg/errors stackTracer interface.
func (e *Error) StackTrace() pkgerrors.StackTrace { return e.stack }

// Backtrace renders the captured stack one frame per line pair, or returns
// false when no stack was captured.
func (e *Error) Backtrace() (string, bool) {
	if len(e.stack) == 0 {
		return "", false
	}
	return strings.TrimPrefix(fmt.Sprintf("%+v", e.stack), "\n"), true
}

// Format implements fmt.Formatter. %+v prints the message, the stack and
// then every cause in turn.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, e.Error())
			e.stack.Format(s, verb)
			if e.cause != nil {
				_, _ = fmt.Fprintf(s, "\ncaused by: %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// CodeOf returns the code of the outermost *Error in err's chain, zero for a
// nil err and CodeUnknown for an error that carries no code.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return CodeUnknown
}

// IsCode reports whether any layer of err's chain has the given code.
func IsCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Messages returns the rendered message of every layer of err's chain,
// outermost first.
func Messages(err error) []string {
	var out []string
	for err != nil {
		out = append(out, err.Error())
		err = errors.Unwrap(err)
	}
	return out
}

// From returns err as an *Error. Errors from outside this package become an
// Unknown error whose cause is err.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return newError(Unknown{}, err, 3)
}
