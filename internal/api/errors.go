package api

import (
	"errors"
	"fmt"
)

// StatusError is a backend rejection: the request reached the server and
// was refused. Its message comes from the response body and is safe to show
// verbatim.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected the request (status %d)", e.Code)
	}
	return e.Message
}

// IsRejected reports whether err is a backend rejection (4xx/5xx with a
// response), as opposed to a transport failure.
func IsRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsUnreachable reports whether err represents a transport-level failure:
// the backend never produced a response. These are recoverable and are
// surfaced as a generic retryable condition.
func IsUnreachable(err error) bool {
	return err != nil && !IsRejected(err)
}
