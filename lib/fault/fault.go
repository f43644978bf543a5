// Package fault holds the failure classification shared by the collector
// and scraper layers. Every outbound call resolves to exactly one of these
// kinds; nothing in the library retries or recovers internally.
package fault

import "fmt"

// HTTPError reports a response with a status code of 400 or above.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s", e.Status)
}

// TransportError reports a failure below the HTTP layer: DNS resolution,
// connection refused, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedError wraps anything that is neither an HTTP status failure nor
// a transport failure, including response bodies that fail to decode.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %s", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// MalformedContent reports text that could not be interpreted as markup.
type MalformedContent struct {
	Err error
}

func (e *MalformedContent) Error() string {
	return fmt.Sprintf("malformed content: %s", e.Err)
}

func (e *MalformedContent) Unwrap() error {
	return e.Err
}
