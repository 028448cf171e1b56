package repository

import "fmt"

// EnvelopeError is returned when the radar API answers with success=false.
type EnvelopeError struct {
	Endpoint string
	Message  string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("radar api %s: request unsuccessful", e.Endpoint)
	}
	return fmt.Sprintf("radar api %s: %s", e.Endpoint, e.Message)
}

// StatusError is returned when the radar API answers with a non-OK status
// and a body that is not a response envelope.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("radar api %s: unexpected status code %d", e.Endpoint, e.StatusCode)
}
