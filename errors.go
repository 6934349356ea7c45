package irpad

import (
	"errors"
	"fmt"
)

// Decode failures. Every decode error wraps exactly one of these, so callers can
// branch with errors.Is.
var (
	// ErrMalformedFrame is returned when a train does not have the length its
	// protocol requires.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrTimingViolation is returned when a header, trailer or bit mark is outside
	// the margin allowed by its protocol.
	ErrTimingViolation = errors.New("timing violation")
	// ErrAmbiguousTiming is returned when more than two bit encodings are found in
	// a train.
	ErrAmbiguousTiming = errors.New("ambiguous timing")
)

// DecodeError describes why a pulse train could not be decoded.
type DecodeError struct {
	Protocol string
	Kind     error
	// Index is the position in the train where decoding stopped, or -1 when the
	// failure concerns the train as a whole.
	Index  int
	Detail string
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	if e.Protocol != "" {
		msg = e.Protocol + ": " + msg
	}
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at pulse %d", msg, e.Index)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// NewDecodeError is a shorthand used by the protocol packages.
func NewDecodeError(protocol string, kind error, index int, format string, args ...any) *DecodeError {
	return &DecodeError{
		Protocol: protocol,
		Kind:     kind,
		Index:    index,
		Detail:   fmt.Sprintf(format, args...),
	}
}
