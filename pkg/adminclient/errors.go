package adminclient

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the admin API cannot be reached or
// answers with a non-2xx status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int    // zero when no response was received
	Body       string // server message, if any
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	msg := fmt.Sprintf("%s %s: status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeserializationError is returned when a response body is not the JSON the
// call expects.
type DeserializationError struct {
	Method string
	URL    string
	Err    error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("%s %s: invalid response body: %v", e.Method, e.URL, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
