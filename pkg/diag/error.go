package diag

import (
	"errors"
	"fmt"
)

// Error is a fatal condition tagged with a Code.
type Error struct {
	Code   Code
	Detail string
	Err    error
}

// New returns an Error for code with a formatted detail.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// Wrap tags err with code. A nil err yields nil.
func Wrap(code Code, err error, detail string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := e.Code.String() + ": " + e.Code.Message()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the first Code found in err's chain, or OK when none is.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return OK
}
