package api

import "fmt"

// RemoteError is a non-2xx backend response that carried a message body.
// The message is surfaced to the user verbatim and the call is not retried.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote error: %s (status %d)", e.Message, e.StatusCode)
}
