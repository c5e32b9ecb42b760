package predict

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestRejected matches any non-2xx response from the service.
	ErrRequestRejected = errors.New("predict: request rejected")
	// ErrTransport matches failures where no usable response was received.
	ErrTransport = errors.New("predict: transport failure")
	// ErrEndpointMissing is returned by New when no endpoint is configured.
	ErrEndpointMissing = errors.New("predict: endpoint is required")
)

// RequestRejectedError carries the status code of a non-success response.
type RequestRejectedError struct {
	StatusCode int
	Body       string
}

func (e *RequestRejectedError) Error() string {
	return fmt.Sprintf("predict: request rejected with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *RequestRejectedError) Is(target error) bool {
	return target == ErrRequestRejected
}

// TransportError wraps the underlying network or decoding failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "predict: " + e.Op + " failed"
	}
	return "predict: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
