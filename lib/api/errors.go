package api

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Client.
var (
	// ErrRequestFailed matches every NetworkError and RequestError.
	ErrRequestFailed = errors.New("api: request failed")

	// ErrMissingCredential is returned by authenticated calls made without
	// a token. No request is sent.
	ErrMissingCredential = errors.New("api: missing credential")

	// ErrInvalidPayload is returned when a request body or a response
	// does not match the expected shape.
	ErrInvalidPayload = errors.New("api: invalid payload")
)

// NetworkError is returned when a request never produced a response
// (connection refused, timeout, cancelled context).
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRequestFailed.
func (e *NetworkError) Is(target error) bool { return target == ErrRequestFailed }

// RequestError is returned when the backend answered with a non-2xx status.
// Message is the backend's own explanation when it sent one.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// StatusCode returns the backend status carried by err, or 0 when err is
// not a RequestError.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// Message returns a short human readable explanation of err suitable for
// an error state or a modal.
func Message(err error) string {
	var (
		re *RequestError
		ne *NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &re) && re.Message != "":
		return re.Message
	case errors.As(err, &re):
		return fmt.Sprintf("The server rejected the request (%d).", re.StatusCode)
	case errors.As(err, &ne):
		return "Could not reach the server."
	case errors.Is(err, ErrMissingCredential):
		return "Please sign in first."
	case errors.Is(err, ErrInvalidPayload):
		return "The server sent an unexpected response."
	}
	return err.Error()
}
