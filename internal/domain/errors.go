package domain

import "errors"

// ValidationError is a local, pre-dispatch rejection: no network call was
// made. Message is safe to surface to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
