package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an upstream failure.
type ErrorKind int

const (
	// KindNetwork means no HTTP response was received (connection failure,
	// timeout, cancelled context) or the response body could not be read.
	KindNetwork ErrorKind = iota

	// KindStatus means Notion answered with a non-2xx status.
	KindStatus

	// KindDecode means Notion answered 2xx but the body was not the JSON we
	// expected.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrInvalidAPIKey is returned by ValidateConnection when Notion rejects the
// configured token.
var ErrInvalidAPIKey = errors.New("notion: API key is invalid or expired")

// Error is returned by every Client operation that fails.
type Error struct {
	Kind ErrorKind

	// Operation is a short name of the upstream call, e.g. "search".
	Operation string

	// StatusCode is the upstream HTTP status, set for KindStatus.
	StatusCode int

	// Code and Message come from Notion's error object when it could be parsed.
	Code    string
	Message string

	// Err is the underlying cause for KindNetwork and KindDecode.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("notion %s: status %d (%s): %s",
				e.Operation, e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("notion %s: status %d", e.Operation, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("notion %s: error decoding response: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("notion %s: request failed: %v", e.Operation, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var nErr *Error
	return errors.As(err, &nErr) &&
		nErr.Kind == KindStatus &&
		nErr.StatusCode == http.StatusNotFound
}
