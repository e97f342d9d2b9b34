package wsgen

import (
	"errors"
	"fmt"
)

// ErrMalformedEnvelope matches every DecodeError through errors.Is
var ErrMalformedEnvelope = errors.New("malformed envelope")

// ErrMissingField is the cause of a DecodeError for an envelope without the discriminator field
var ErrMissingField = errors.New("missing field")

// DecodeError reports a message that could not be parsed, read or decoded
type DecodeError struct {
	Op    string // parse, field, decode or validate
	Field string // set for field lookups
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("wsgen: %s %q: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("wsgen: %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports DecodeError as a malformed envelope
func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedEnvelope
}

// UnmatchedError is returned by dispatchers that reject unknown discriminator values
type UnmatchedError struct {
	Key   string
	Value string
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("wsgen: no handler for %s=%q", e.Key, e.Value)
}
