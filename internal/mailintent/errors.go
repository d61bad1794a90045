package mailintent

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTemplate reports a template that cannot produce a mail intent.
	ErrInvalidTemplate = errors.New("invalid mail template")
	// ErrUnknownVariant reports a template variant missing from the configured set.
	ErrUnknownVariant = errors.New("unknown mail template variant")
	// ErrMalformedURI reports a string that is not a mailto URI.
	ErrMalformedURI = errors.New("malformed mailto uri")
)

// ValidationError describes a contact field that blocks intent construction.
type ValidationError struct {
	Field  string
	Reason string
}

func (validationError *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", validationError.Field, validationError.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any field failure.
func (validationError *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
