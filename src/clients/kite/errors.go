package kite

import "fmt"

// ErrorKind classifies a broker call failure.
type ErrorKind string

const (
	// ErrorKindTransport covers network failures, timeouts and non-2xx
	// responses. No automatic retry is performed for these.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindProtocol covers responses that cannot be decoded into the
	// expected shape.
	ErrorKindProtocol ErrorKind = "protocol"
	// ErrorKindApplication covers errors reported by the broker itself via
	// the status field of the response envelope.
	ErrorKindApplication ErrorKind = "application"
)

// Error is the single error type surfaced by the Kite client. The Message of
// an application error carries the broker's message verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kite: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("kite: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newTransportError(message string, err error) *Error {
	return &Error{Kind: ErrorKindTransport, Message: message, Err: err}
}

func newProtocolError(message string, err error) *Error {
	return &Error{Kind: ErrorKindProtocol, Message: message, Err: err}
}

func newApplicationError(message string) *Error {
	return &Error{Kind: ErrorKindApplication, Message: message}
}
