package ledger

import (
	"errors"
	"fmt"
)

// errNotFound marks an absent remote record. Service methods translate it
// into a nil result rather than exposing it to callers.
var errNotFound = errors.New("record not found")

// RemoteCallError is a transport-level failure: network error, non-2xx
// response or malformed body. It is not retried by this layer.
type RemoteCallError struct {
	Service string
	Op      string
	Err     error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// DomainError is a successfully-transported but logically-rejected operation:
// the err branch of a remote result. Message is the literal remote text.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError reports whether err carries a remote-side rejection.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
