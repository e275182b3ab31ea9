package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidEndpoint reports malformed request URL construction. With a valid
// base URL in config this is unreachable.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// ErrUnauthorized matches a StatusError carrying 401 via errors.Is, so
// callers can force a sign-out without inspecting status codes.
var ErrUnauthorized = errors.New("unauthorized")

// TransportError reports a network or connection failure before any HTTP
// status was received. It wraps the underlying cause.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports an HTTP status outside the accepted set for the
// operation that produced it.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// DecodeError reports a response body that does not parse into the expected
// shape. It wraps the underlying cause.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
