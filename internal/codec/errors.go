package codec

import (
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel all parse failures wrap. Callers should
// use errors.Is(err, ErrMalformed) rather than matching error strings.
var ErrMalformed = errors.New("tagged-netstring: malformed input")

// MalformedError carries the offending reason alongside ErrMalformed.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string { return "tagged-netstring: " + e.Reason }

func (e *MalformedError) Unwrap() error { return ErrMalformed }

func malformed(format string, args ...any) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}
